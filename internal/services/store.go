package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
	"github.com/tbourn/tutor-admin-backend/internal/repo"
)

// StoreTeachers adapts the repo teacher functions to TeacherRepo.
type StoreTeachers struct{}

func (StoreTeachers) ListTeachers(ctx context.Context, db *gorm.DB) ([]domain.Teacher, error) {
	return repo.ListTeachers(ctx, db)
}

func (StoreTeachers) GetTeacher(ctx context.Context, db *gorm.DB, id int64) (*domain.Teacher, error) {
	return repo.GetTeacher(ctx, db, id)
}

func (StoreTeachers) CreateTeacher(ctx context.Context, db *gorm.DB, in domain.CreateTeacher) (*domain.Teacher, error) {
	return repo.CreateTeacher(ctx, db, in)
}

func (StoreTeachers) UpdateTeacher(ctx context.Context, db *gorm.DB, id int64, patch domain.UpdateTeacher) (*domain.Teacher, error) {
	return repo.UpdateTeacher(ctx, db, id, patch)
}

func (StoreTeachers) DeleteTeacher(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	return repo.DeleteTeacher(ctx, db, id)
}

// StoreCourses adapts the repo course functions to CourseRepo.
type StoreCourses struct{}

func (StoreCourses) ListCourses(ctx context.Context, db *gorm.DB, teacherID int64) ([]domain.Course, error) {
	return repo.ListCourses(ctx, db, teacherID)
}

func (StoreCourses) GetCourse(ctx context.Context, db *gorm.DB, teacherID, id int64) (*domain.Course, error) {
	return repo.GetCourse(ctx, db, teacherID, id)
}

func (StoreCourses) GetCourseByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Course, error) {
	return repo.GetCourseByID(ctx, db, id)
}

func (StoreCourses) CreateCourse(ctx context.Context, db *gorm.DB, in domain.CreateCourse) (*domain.Course, error) {
	return repo.CreateCourse(ctx, db, in)
}

func (StoreCourses) UpdateCourse(ctx context.Context, db *gorm.DB, teacherID, id int64, patch domain.UpdateCourse) (*domain.Course, error) {
	return repo.UpdateCourse(ctx, db, teacherID, id, patch)
}

func (StoreCourses) DeleteCourse(ctx context.Context, db *gorm.DB, teacherID, id int64) (int64, error) {
	return repo.DeleteCourse(ctx, db, teacherID, id)
}

// StoreIdempotency adapts the repo idempotency functions to IdempotencyRepo.
type StoreIdempotency struct{}

func (StoreIdempotency) GetIdempotency(ctx context.Context, db *gorm.DB, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, db, scope, key, now)
}

func (StoreIdempotency) CreateIdempotency(ctx context.Context, db *gorm.DB, scope, key, requestHash string, resourceID int64, ttl time.Duration) (*domain.Idempotency, error) {
	return repo.CreateIdempotency(ctx, db, scope, key, requestHash, resourceID, ttl)
}
