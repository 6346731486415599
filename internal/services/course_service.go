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

// CourseRepo defines the repository contract required by CourseService.
type CourseRepo interface {
	ListCourses(ctx context.Context, db *gorm.DB, teacherID int64) ([]domain.Course, error)
	GetCourse(ctx context.Context, db *gorm.DB, teacherID, id int64) (*domain.Course, error)
	GetCourseByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Course, error)
	CreateCourse(ctx context.Context, db *gorm.DB, in domain.CreateCourse) (*domain.Course, error)
	UpdateCourse(ctx context.Context, db *gorm.DB, teacherID, id int64, patch domain.UpdateCourse) (*domain.Course, error)
	DeleteCourse(ctx context.Context, db *gorm.DB, teacherID, id int64) (int64, error)
}

// CourseService exposes course operations to the HTTP layer. Courses are
// always addressed through their owning teacher.
type CourseService struct {
	DB             *gorm.DB
	Repo           CourseRepo
	Idem           IdempotencyRepo
	IdempotencyTTL time.Duration
}

// NewCourseService constructs a CourseService.
func NewCourseService(db *gorm.DB, r CourseRepo, idem IdempotencyRepo, ttl time.Duration) *CourseService {
	return &CourseService{DB: db, Repo: r, Idem: idem, IdempotencyTTL: ttl}
}

func (s *CourseService) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("services/CourseService").Start(ctx, name, trace.WithAttributes(attrs...))
}

// List returns the courses of a teacher; none is NotFound.
func (s *CourseService) List(ctx context.Context, teacherID int64) ([]domain.Course, error) {
	ctx, span := s.span(ctx, "List", attribute.Int64("teacher.id", teacherID))
	defer span.End()
	return s.Repo.ListCourses(ctx, s.DB, teacherID)
}

// Get returns one course of a teacher.
func (s *CourseService) Get(ctx context.Context, teacherID, id int64) (*domain.Course, error) {
	ctx, span := s.span(ctx, "Get",
		attribute.Int64("teacher.id", teacherID),
		attribute.Int64("course.id", id),
	)
	defer span.End()
	return s.Repo.GetCourse(ctx, s.DB, teacherID, id)
}

// Create inserts a course, honouring idemKey the same way as
// TeacherService.Create. A replay returns the recorded course by id, so a key
// can never surface a course under a different teacher.
func (s *CourseService) Create(ctx context.Context, idemKey string, in domain.CreateCourse) (c *domain.Course, replayed bool, err error) {
	ctx, span := s.span(ctx, "Create",
		attribute.Int64("teacher.id", in.TeacherID),
		attribute.Bool("idempotent", idemKey != ""),
	)
	defer span.End()

	c, replayed, err = createOnce(ctx, s.DB, s.Idem, domain.ScopeCourses, idemKey, requestFingerprint(in), s.IdempotencyTTL,
		func(tx *gorm.DB) (*domain.Course, int64, error) {
			c, err := s.Repo.CreateCourse(ctx, tx, in)
			if err != nil {
				return nil, 0, err
			}
			return c, c.ID, nil
		},
		func(id int64) (*domain.Course, error) {
			return s.Repo.GetCourseByID(ctx, s.DB, id)
		},
	)
	span.SetAttributes(attribute.Bool("idempotency.replayed", replayed))
	return c, replayed, err
}

// Update merges patch onto the course identified by (teacherID, id).
func (s *CourseService) Update(ctx context.Context, teacherID, id int64, patch domain.UpdateCourse) (*domain.Course, error) {
	ctx, span := s.span(ctx, "Update",
		attribute.Int64("teacher.id", teacherID),
		attribute.Int64("course.id", id),
	)
	defer span.End()
	return s.Repo.UpdateCourse(ctx, s.DB, teacherID, id, patch)
}

// Delete removes the course identified by (teacherID, id) and returns the
// number of rows deleted.
func (s *CourseService) Delete(ctx context.Context, teacherID, id int64) (int64, error) {
	ctx, span := s.span(ctx, "Delete",
		attribute.Int64("teacher.id", teacherID),
		attribute.Int64("course.id", id),
	)
	defer span.End()
	return s.Repo.DeleteCourse(ctx, s.DB, teacherID, id)
}
