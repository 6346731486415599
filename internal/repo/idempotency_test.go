package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
)

func TestGetIdempotency_BlankKey_ReturnsNoRecord(t *testing.T) {
	db := newRepoDB(t, true)
	rec, err := GetIdempotency(context.Background(), db, domain.ScopeCourses, "   ", time.Now().UTC())
	if rec != nil || !errors.Is(err, ErrNoIdempotency) {
		t.Fatalf("expected (nil, ErrNoIdempotency) for blank key, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNoRecord(t *testing.T) {
	db := newRepoDB(t, true)
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:         "expired",
		Scope:      domain.ScopeCourses,
		Key:        "k1",
		ResourceID: 3,
		CreatedAt:  now.Add(-2 * time.Hour),
		ExpiresAt:  now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	rec, err := GetIdempotency(context.Background(), db, domain.ScopeCourses, "k1", now)
	if rec != nil || !errors.Is(err, ErrNoIdempotency) {
		t.Fatalf("expected (nil, ErrNoIdempotency) for expired, got (%v, %v)", rec, err)
	}

	// Same key in another scope is a different record.
	rec2, err2 := GetIdempotency(context.Background(), db, domain.ScopeTeachers, "k1", now)
	if rec2 != nil || !errors.Is(err2, ErrNoIdempotency) {
		t.Fatalf("expected (nil, ErrNoIdempotency) for other scope, got (%v, %v)", rec2, err2)
	}
}

func TestCreateThenGetIdempotency(t *testing.T) {
	db := newRepoDB(t, true)
	ctx := context.Background()
	start := time.Now().UTC()
	ttl := 90 * time.Minute

	rec, err := CreateIdempotency(ctx, db, domain.ScopeTeachers, "k9", "h42", 42, ttl)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.Scope != domain.ScopeTeachers || rec.Key != "k9" || rec.ResourceID != 42 || rec.RequestHash != "h42" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	// Loose bound to avoid timing flakes.
	if !(rec.ExpiresAt.After(start) && rec.ExpiresAt.Before(start.Add(2*time.Hour))) {
		t.Fatalf("unexpected ExpiresAt: %v", rec.ExpiresAt)
	}

	got, err := GetIdempotency(ctx, db, domain.ScopeTeachers, "k9", time.Now().UTC())
	if err != nil || got.ResourceID != 42 || got.RequestHash != "h42" {
		t.Fatalf("GetIdempotency = (%+v, %v)", got, err)
	}

	if _, err := CreateIdempotency(ctx, db, domain.ScopeTeachers, "k9", "h43", 43, ttl); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateIdempotency_StoreError_NoTable(t *testing.T) {
	db := newRepoDB(t, false)
	_, err := CreateIdempotency(context.Background(), db, domain.ScopeCourses, "kX", "", 1, time.Minute)
	if errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected non-duplicate error, got ErrDuplicate")
	}
	wantKind(t, err, domain.KindStore)
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newRepoDB(t, true)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, exp := range []time.Time{now.Add(-time.Hour), now.Add(-time.Minute), now.Add(time.Hour)} {
		rec := &domain.Idempotency{
			ID:         string(rune('a' + i)),
			Scope:      domain.ScopeCourses,
			Key:        string(rune('a' + i)),
			ResourceID: int64(i + 1),
			ExpiresAt:  exp,
		}
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, err := PurgeExpiredIdempotency(ctx, db, now)
	if err != nil || n != 2 {
		t.Fatalf("PurgeExpiredIdempotency = (%d, %v); want (2, nil)", n, err)
	}
	var left int64
	db.Model(&domain.Idempotency{}).Count(&left)
	if left != 1 {
		t.Fatalf("expected 1 live record, got %d", left)
	}
}
