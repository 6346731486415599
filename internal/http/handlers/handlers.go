package handlers

import (
	"context"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
	"github.com/tbourn/tutor-admin-backend/internal/state"
)

// TeacherService defines the teacher operations consumed by the handlers.
// Implementations must be safe for concurrent use and honor ctx.
type TeacherService interface {
	List(ctx context.Context) ([]domain.Teacher, error)
	Get(ctx context.Context, id int64) (*domain.Teacher, error)
	// Create inserts a teacher; replayed is true when idemKey was already
	// bound to an earlier create and that teacher is returned instead.
	Create(ctx context.Context, idemKey string, in domain.CreateTeacher) (t *domain.Teacher, replayed bool, err error)
	Update(ctx context.Context, id int64, patch domain.UpdateTeacher) (*domain.Teacher, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// CourseService defines the course operations consumed by the handlers.
type CourseService interface {
	List(ctx context.Context, teacherID int64) ([]domain.Course, error)
	Get(ctx context.Context, teacherID, id int64) (*domain.Course, error)
	Create(ctx context.Context, idemKey string, in domain.CreateCourse) (c *domain.Course, replayed bool, err error)
	Update(ctx context.Context, teacherID, id int64, patch domain.UpdateCourse) (*domain.Course, error)
	Delete(ctx context.Context, teacherID, id int64) (int64, error)
}

// Handlers groups the HTTP endpoints. It depends on service interfaces and
// the shared application state only.
type Handlers struct {
	teachers TeacherService
	courses  CourseService
	state    *state.AppState
}

// New constructs Handlers bound to the given services and state.
func New(teachers TeacherService, courses CourseService, st *state.AppState) *Handlers {
	return &Handlers{teachers: teachers, courses: courses, state: st}
}
