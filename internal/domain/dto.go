package domain

// CreateTeacher is the inbound payload for registering a teacher. All three
// fields must be present and non-null; an empty string is a valid value.
type CreateTeacher struct {
	Name       *string `json:"name"        binding:"required" example:"Ada Lovelace"`
	PictureURL *string `json:"picture_url" binding:"required" example:"https://example.com/ada.png"`
	Profile    *string `json:"profile"     binding:"required" example:"Mathematician and first programmer"`
}

// UpdateTeacher is the inbound payload for a partial teacher update.
// A nil field leaves the stored value unchanged.
type UpdateTeacher struct {
	Name       *string `json:"name,omitempty"`
	PictureURL *string `json:"picture_url,omitempty"`
	Profile    *string `json:"profile,omitempty"`
}

// CreateCourse is the inbound payload for creating a course.
type CreateCourse struct {
	TeacherID   int64   `json:"teacher_id"  binding:"required,gt=0" example:"1"`
	Name        *string `json:"name"        binding:"required"      example:"Intro"`
	Description *string `json:"description,omitempty" example:"basics"`
	Format      *string `json:"format,omitempty"      example:"self-paced"`
	Structure   *string `json:"structure,omitempty"`
	Duration    *string `json:"duration,omitempty"    example:"4 weeks"`
	Price       *int32  `json:"price,omitempty"       example:"32"`
	Language    *string `json:"language,omitempty"    example:"English"`
	Level       *string `json:"level,omitempty"       example:"Beginner"`
}

// UpdateCourse is the inbound payload for a partial course update. The owning
// teacher cannot be changed, so TeacherID is deliberately absent.
type UpdateCourse struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Format      *string `json:"format,omitempty"`
	Structure   *string `json:"structure,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	Price       *int32  `json:"price,omitempty"`
	Language    *string `json:"language,omitempty"`
	Level       *string `json:"level,omitempty"`
}
