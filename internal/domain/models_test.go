package domain

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:domain_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func strp(s string) *string { return &s }

func TestTableNames(t *testing.T) {
	if (Teacher{}).TableName() != "teacher" {
		t.Fatalf("Teacher.TableName() = %q; want %q", (Teacher{}).TableName(), "teacher")
	}
	if (Course{}).TableName() != "course" {
		t.Fatalf("Course.TableName() = %q; want %q", (Course{}).TableName(), "course")
	}
	if (Idempotency{}).TableName() != "idempotency" {
		t.Fatalf("Idempotency.TableName() = %q; want %q", (Idempotency{}).TableName(), "idempotency")
	}
}

func TestMigrations_TablesAndIndexes(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Teacher{}, &Course{}, &Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	for _, tbl := range []any{&Teacher{}, &Course{}, &Idempotency{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	if !m.HasIndex(&Course{}, "idx_course_teacher") {
		t.Fatalf("expected index idx_course_teacher on course")
	}
	if !m.HasIndex(&Idempotency{}, "ux_idem_scope_key") {
		t.Fatalf("expected unique index ux_idem_scope_key on idempotency")
	}
	if !m.HasColumn(&Course{}, "time") || !m.HasColumn(&Teacher{}, "picture_url") {
		t.Fatalf("expected explicit column names time / picture_url")
	}
}

func TestCourse_CreateStampsTimeAndID(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Course{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	before := time.Now().Add(-time.Second)
	c := &Course{TeacherID: 1, Name: "Intro"}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == 0 {
		t.Fatalf("expected store-generated id")
	}
	if c.Time.Before(before) {
		t.Fatalf("expected Time to be stamped on insert, got %v", c.Time)
	}
}

func TestTeacher_JSONShape_NullsSerialize(t *testing.T) {
	b, err := json.Marshal(Teacher{ID: 3, Name: strp("Ada")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":3,"name":"Ada","picture_url":null,"profile":null}`
	if string(b) != want {
		t.Fatalf("teacher json = %s; want %s", b, want)
	}
}

func TestUpdateCourse_AbsentVsEmpty(t *testing.T) {
	var u UpdateCourse
	if err := json.Unmarshal([]byte(`{"description":"","price":32}`), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.Name != nil {
		t.Fatalf("absent name must stay nil")
	}
	if u.Description == nil || *u.Description != "" {
		t.Fatalf("explicit empty description must be a non-nil empty string")
	}
	if u.Price == nil || *u.Price != 32 {
		t.Fatalf("price = %v; want 32", u.Price)
	}
}
