package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
)

// Caller-facing messages for missing teachers.
const (
	msgNoTeachers       = "No teachers found"
	msgTeacherNotFound  = "Teacher is not found"
	msgTeacherIDMissing = "Teacher id not found"
)

// ListTeachers returns every teacher ordered by id. An empty table is
// reported as NotFound.
func ListTeachers(ctx context.Context, db *gorm.DB) ([]domain.Teacher, error) {
	var out []domain.Teacher
	if err := db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, classify(err, "list teachers", msgNoTeachers)
	}
	if len(out) == 0 {
		return nil, domain.NotFound(msgNoTeachers)
	}
	return out, nil
}

// GetTeacher fetches one teacher by id.
func GetTeacher(ctx context.Context, db *gorm.DB, id int64) (*domain.Teacher, error) {
	var t domain.Teacher
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, classify(err, "get teacher", msgTeacherNotFound)
	}
	return &t, nil
}

// CreateTeacher inserts a teacher and returns the persisted row with its
// store-assigned id.
func CreateTeacher(ctx context.Context, db *gorm.DB, in domain.CreateTeacher) (*domain.Teacher, error) {
	t := &domain.Teacher{
		Name:       in.Name,
		PictureURL: in.PictureURL,
		Profile:    in.Profile,
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, domain.StoreError("create teacher", err)
	}
	return t, nil
}

// UpdateTeacher merges patch onto the stored teacher and writes every mutable
// column back in a single statement. The read takes a row lock inside the
// same transaction as the write, so concurrent merges on one teacher apply
// one after another. Absent patch fields keep their stored value, including
// NULL.
func UpdateTeacher(ctx context.Context, db *gorm.DB, id int64, patch domain.UpdateTeacher) (*domain.Teacher, error) {
	var merged domain.Teacher
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur domain.Teacher
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&cur).Error; err != nil {
			return classify(err, "read teacher for update", msgTeacherIDMissing)
		}

		merged = domain.Teacher{
			ID:         cur.ID,
			Name:       pick(patch.Name, cur.Name),
			PictureURL: pick(patch.PictureURL, cur.PictureURL),
			Profile:    pick(patch.Profile, cur.Profile),
		}

		res := tx.Model(&domain.Teacher{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"name":        nullable(merged.Name),
				"picture_url": nullable(merged.PictureURL),
				"profile":     nullable(merged.Profile),
			})
		if res.Error != nil {
			return domain.StoreError("update teacher", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NotFound(msgTeacherNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, "update teacher", msgTeacherNotFound)
	}
	return &merged, nil
}

// DeleteTeacher removes the teacher with the given id and reports how many
// rows were deleted. Zero is not an error here; the caller decides.
func DeleteTeacher(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Teacher{})
	if res.Error != nil {
		return 0, domain.StoreError("delete teacher", res.Error)
	}
	return res.RowsAffected, nil
}
