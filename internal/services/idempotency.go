// Package services holds the per-entity facades that sit between the HTTP
// handlers and the repository functions. Services add tracing spans and the
// idempotent-create flow; everything else passes straight through, and
// classified repository errors are returned unchanged.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
	"github.com/tbourn/tutor-admin-backend/internal/repo"
)

// IdempotencyRepo is the persistence contract for Idempotency-Key records.
type IdempotencyRepo interface {
	// GetIdempotency returns the live record for (scope, key) or
	// repo.ErrNoIdempotency.
	GetIdempotency(ctx context.Context, db *gorm.DB, scope, key string, now time.Time) (*domain.Idempotency, error)

	// CreateIdempotency stores key -> resourceID together with the request
	// fingerprint and returns repo.ErrDuplicate when the pair already exists.
	CreateIdempotency(ctx context.Context, db *gorm.DB, scope, key, requestHash string, resourceID int64, ttl time.Duration) (*domain.Idempotency, error)
}

// defaultIdempotencyTTL applies when a service is built with a zero TTL.
const defaultIdempotencyTTL = 24 * time.Hour

// Caller-facing messages for rejected replays.
const (
	msgKeyReused     = "Idempotency-Key reused with a different request"
	msgReplayResGone = "Idempotency-Key refers to a deleted resource"
)

// requestFingerprint hashes the JSON form of a create payload. Field order is
// fixed by the struct, so equal payloads hash equally.
func requestFingerprint(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// createOnce runs create inside a transaction and records key -> id in the
// same transaction, along with the fingerprint of the request. If key was
// already used within scope, load is called with the stored id and replayed
// is true. A stored fingerprint that differs from fingerprint is rejected as
// InvalidInput, as is a replay whose resource has since been deleted. An
// empty key skips the bookkeeping.
func createOnce[T any](
	ctx context.Context,
	db *gorm.DB,
	idem IdempotencyRepo,
	scope, key, fingerprint string,
	ttl time.Duration,
	create func(tx *gorm.DB) (*T, int64, error),
	load func(id int64) (*T, error),
) (out *T, replayed bool, err error) {
	if key == "" || idem == nil {
		out, _, err = create(db)
		return out, false, err
	}
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}

	if rec, err := lookup(ctx, db, idem, scope, key); err != nil {
		return nil, false, err
	} else if rec != nil {
		return replay(rec, fingerprint, load)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, id, err := create(tx)
		if err != nil {
			return err
		}
		if _, err := idem.CreateIdempotency(ctx, tx, scope, key, fingerprint, id, ttl); err != nil {
			return err
		}
		out = v
		return nil
	})
	if errors.Is(err, repo.ErrDuplicate) {
		// A concurrent request with the same key committed first; our insert
		// was rolled back, so serve theirs.
		rec, lerr := lookup(ctx, db, idem, scope, key)
		if lerr != nil {
			return nil, false, lerr
		}
		if rec == nil {
			return nil, false, domain.StoreError("idempotency replay", err)
		}
		return replay(rec, fingerprint, load)
	}
	if err != nil {
		var de *domain.Error
		if !errors.As(err, &de) {
			err = domain.StoreError("create transaction", err)
		}
		return nil, false, err
	}
	return out, false, nil
}

// replay serves the resource recorded in rec. Records written before
// fingerprints were stored carry an empty hash and are not compared.
func replay[T any](rec *domain.Idempotency, fingerprint string, load func(id int64) (*T, error)) (*T, bool, error) {
	if rec.RequestHash != "" && rec.RequestHash != fingerprint {
		return nil, false, domain.InvalidInput(msgKeyReused)
	}
	out, err := load(rec.ResourceID)
	if domain.IsNotFound(err) {
		return nil, false, domain.InvalidInput(msgReplayResGone)
	}
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// lookup returns the live record for (scope, key), or nil when there is none.
func lookup(ctx context.Context, db *gorm.DB, idem IdempotencyRepo, scope, key string) (*domain.Idempotency, error) {
	rec, err := idem.GetIdempotency(ctx, db, scope, key, time.Now().UTC())
	switch {
	case errors.Is(err, repo.ErrNoIdempotency):
		return nil, nil
	case err != nil:
		return nil, err
	default:
		return rec, nil
	}
}
