package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
)

// classify turns a raw GORM error into a domain error. A missing row becomes
// NotFound with notFoundMsg; every other failure is a StoreError tagged op.
func classify(err error, op, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(notFoundMsg)
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.StoreError(op, err)
}

// nullable unwraps p for use as a bound column value; nil becomes SQL NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// pick returns patch when it is set and cur otherwise.
func pick[T any](patch, cur *T) *T {
	if patch != nil {
		return patch
	}
	return cur
}
