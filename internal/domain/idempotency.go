package domain

import "time"

// Idempotency records the result of a create request that carried an
// Idempotency-Key header, keyed by (scope, key). Scope is the collection
// ("teachers" or "courses"); ResourceID points at the row that was created so
// a retried request can return it instead of inserting a duplicate.
// RequestHash fingerprints the original request body; a retry with the same
// key but a different body is rejected.
type Idempotency struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	Scope       string    `gorm:"type:varchar(32);not null;uniqueIndex:ux_idem_scope_key,priority:1"`
	Key         string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_idem_scope_key,priority:2"`
	RequestHash string    `gorm:"type:varchar(64);not null;default:''"`
	ResourceID  int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

// Idempotency scopes.
const (
	ScopeTeachers = "teachers"
	ScopeCourses  = "courses"
)
