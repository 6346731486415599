package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
)

// TeacherRepo defines the repository contract required by TeacherService.
type TeacherRepo interface {
	ListTeachers(ctx context.Context, db *gorm.DB) ([]domain.Teacher, error)
	GetTeacher(ctx context.Context, db *gorm.DB, id int64) (*domain.Teacher, error)
	CreateTeacher(ctx context.Context, db *gorm.DB, in domain.CreateTeacher) (*domain.Teacher, error)
	UpdateTeacher(ctx context.Context, db *gorm.DB, id int64, patch domain.UpdateTeacher) (*domain.Teacher, error)

	// DeleteTeacher returns the number of rows removed.
	DeleteTeacher(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}

// TeacherService exposes teacher operations to the HTTP layer.
type TeacherService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the teacher repository used by this service.
	Repo TeacherRepo
	// Idem stores Idempotency-Key records; nil disables idempotent creates.
	Idem IdempotencyRepo
	// IdempotencyTTL is how long a key stays bound to the created teacher.
	IdempotencyTTL time.Duration
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(db *gorm.DB, r TeacherRepo, idem IdempotencyRepo, ttl time.Duration) *TeacherService {
	return &TeacherService{DB: db, Repo: r, Idem: idem, IdempotencyTTL: ttl}
}

func (s *TeacherService) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("services/TeacherService").Start(ctx, name, trace.WithAttributes(attrs...))
}

// List returns all teachers; an empty store is NotFound.
func (s *TeacherService) List(ctx context.Context) ([]domain.Teacher, error) {
	ctx, span := s.span(ctx, "List")
	defer span.End()
	return s.Repo.ListTeachers(ctx, s.DB)
}

// Get returns the teacher with the given id.
func (s *TeacherService) Get(ctx context.Context, id int64) (*domain.Teacher, error) {
	ctx, span := s.span(ctx, "Get", attribute.Int64("teacher.id", id))
	defer span.End()
	return s.Repo.GetTeacher(ctx, s.DB, id)
}

// Create inserts a teacher. With a non-empty idemKey, a repeated call with
// the same payload returns the teacher created by the first call and replayed
// is true; a different payload under the same key is InvalidInput.
func (s *TeacherService) Create(ctx context.Context, idemKey string, in domain.CreateTeacher) (t *domain.Teacher, replayed bool, err error) {
	ctx, span := s.span(ctx, "Create", attribute.Bool("idempotent", idemKey != ""))
	defer span.End()

	t, replayed, err = createOnce(ctx, s.DB, s.Idem, domain.ScopeTeachers, idemKey, requestFingerprint(in), s.IdempotencyTTL,
		func(tx *gorm.DB) (*domain.Teacher, int64, error) {
			t, err := s.Repo.CreateTeacher(ctx, tx, in)
			if err != nil {
				return nil, 0, err
			}
			return t, t.ID, nil
		},
		func(id int64) (*domain.Teacher, error) {
			return s.Repo.GetTeacher(ctx, s.DB, id)
		},
	)
	span.SetAttributes(attribute.Bool("idempotency.replayed", replayed))
	return t, replayed, err
}

// Update merges patch onto the stored teacher.
func (s *TeacherService) Update(ctx context.Context, id int64, patch domain.UpdateTeacher) (*domain.Teacher, error) {
	ctx, span := s.span(ctx, "Update", attribute.Int64("teacher.id", id))
	defer span.End()
	return s.Repo.UpdateTeacher(ctx, s.DB, id, patch)
}

// Delete removes a teacher and returns the number of rows deleted.
func (s *TeacherService) Delete(ctx context.Context, id int64) (int64, error) {
	ctx, span := s.span(ctx, "Delete", attribute.Int64("teacher.id", id))
	defer span.End()
	return s.Repo.DeleteTeacher(ctx, s.DB, id)
}
