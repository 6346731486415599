package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
)

// Caller-facing messages for missing courses.
const (
	msgNoCoursesForTeacher = "Course not found for teacher"
	msgCourseNotFound      = "Course Id or Teacher Id is not found"
	msgCourseIDMissing     = "Course id not found"
	msgCourseGone          = "Course is not found"
)

// ListCourses returns the courses owned by teacherID in store order. A
// teacher with no courses is reported as NotFound.
func ListCourses(ctx context.Context, db *gorm.DB, teacherID int64) ([]domain.Course, error) {
	var out []domain.Course
	err := db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Find(&out).Error
	if err != nil {
		return nil, classify(err, "list courses", msgNoCoursesForTeacher)
	}
	if len(out) == 0 {
		return nil, domain.NotFound(msgNoCoursesForTeacher)
	}
	return out, nil
}

// GetCourse fetches a course that matches both teacherID and id.
func GetCourse(ctx context.Context, db *gorm.DB, teacherID, id int64) (*domain.Course, error) {
	var c domain.Course
	err := db.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&c).Error
	if err != nil {
		return nil, classify(err, "get course", msgCourseNotFound)
	}
	return &c, nil
}

// GetCourseByID fetches a course by its id alone, regardless of owner.
func GetCourseByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Course, error) {
	var c domain.Course
	if err := db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, classify(err, "get course by id", msgCourseGone)
	}
	return &c, nil
}

// CreateCourse inserts a course. The returned row carries the store-assigned
// id and creation time.
func CreateCourse(ctx context.Context, db *gorm.DB, in domain.CreateCourse) (*domain.Course, error) {
	c := &domain.Course{
		TeacherID:   in.TeacherID,
		Description: in.Description,
		Format:      in.Format,
		Structure:   in.Structure,
		Duration:    in.Duration,
		Price:       in.Price,
		Language:    in.Language,
		Level:       in.Level,
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, domain.StoreError("create course", err)
	}
	return c, nil
}

// UpdateCourse merges patch onto the course identified by (teacherID, id).
// It reads the row under a lock and writes all mutable columns in one
// statement within a single transaction. TeacherID, ID and Time never change.
// Absent patch fields keep their stored value, including NULL; they are not
// replaced with an empty default.
func UpdateCourse(ctx context.Context, db *gorm.DB, teacherID, id int64, patch domain.UpdateCourse) (*domain.Course, error) {
	var merged domain.Course
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur domain.Course
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND teacher_id = ?", id, teacherID).
			First(&cur).Error; err != nil {
			return classify(err, "read course for update", msgCourseIDMissing)
		}

		merged = cur
		if patch.Name != nil {
			merged.Name = *patch.Name
		}
		merged.Description = pick(patch.Description, cur.Description)
		merged.Format = pick(patch.Format, cur.Format)
		merged.Structure = pick(patch.Structure, cur.Structure)
		merged.Duration = pick(patch.Duration, cur.Duration)
		merged.Price = pick(patch.Price, cur.Price)
		merged.Language = pick(patch.Language, cur.Language)
		merged.Level = pick(patch.Level, cur.Level)

		res := tx.Model(&domain.Course{}).
			Where("id = ? AND teacher_id = ?", id, teacherID).
			Updates(map[string]any{
				"name":        merged.Name,
				"description": nullable(merged.Description),
				"format":      nullable(merged.Format),
				"structure":   nullable(merged.Structure),
				"duration":    nullable(merged.Duration),
				"price":       nullable(merged.Price),
				"language":    nullable(merged.Language),
				"level":       nullable(merged.Level),
			})
		if res.Error != nil {
			return domain.StoreError("update course", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NotFound(msgCourseGone)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, "update course", msgCourseGone)
	}
	return &merged, nil
}

// DeleteCourse removes the course matching (teacherID, id) and reports the
// number of rows deleted.
func DeleteCourse(ctx context.Context, db *gorm.DB, teacherID, id int64) (int64, error) {
	res := db.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		Delete(&domain.Course{})
	if res.Error != nil {
		return 0, domain.StoreError("delete course", res.Error)
	}
	return res.RowsAffected, nil
}
