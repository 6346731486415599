// Package domain defines the persistence models for teachers and courses,
// the request DTOs that carry inbound data into the repository layer, and the
// error taxonomy shared by every layer of the admin backend. These types are
// mapped with GORM and have no dependencies on the transport.
package domain

import "time"

// Teacher is a person who publishes courses on the platform. Every attribute
// except the store-generated ID may be NULL.
//
// Fields:
//   - ID: store-generated primary key; never changes after insert.
//   - Name: display name.
//   - PictureURL: URL of the teacher's avatar.
//   - Profile: free-form biography.
type Teacher struct {
	ID         int64   `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name       *string `json:"name"        gorm:"type:text"`
	PictureURL *string `json:"picture_url" gorm:"column:picture_url;type:text"`
	Profile    *string `json:"profile"     gorm:"type:text"`
}

// TableName returns the database table name for Teacher.
func (Teacher) TableName() string { return "teacher" }

// Course is an offering owned by a single teacher. TeacherID is set at
// creation and is immutable afterwards; Time is stamped on insert.
//
// Fields:
//   - ID: store-generated primary key.
//   - TeacherID: owning teacher (indexed, immutable).
//   - Name: course title (required).
//   - Time: creation timestamp.
//   - Description, Format, Structure, Duration, Language, Level: optional text.
//   - Price: optional integer price.
type Course struct {
	ID          int64     `json:"id"          gorm:"primaryKey;autoIncrement"`
	TeacherID   int64     `json:"teacher_id"  gorm:"not null;index:idx_course_teacher"`
	Name        string    `json:"name"        gorm:"type:text;not null"`
	Time        time.Time `json:"time"        gorm:"column:time;autoCreateTime"`
	Description *string   `json:"description" gorm:"type:text"`
	Format      *string   `json:"format"      gorm:"type:text"`
	Structure   *string   `json:"structure"   gorm:"type:text"`
	Duration    *string   `json:"duration"    gorm:"type:text"`
	Price       *int32    `json:"price"`
	Language    *string   `json:"language"    gorm:"type:text"`
	Level       *string   `json:"level"       gorm:"type:text"`
}

// TableName returns the database table name for Course.
func (Course) TableName() string { return "course" }
