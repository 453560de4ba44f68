// Package store holds the gorm-backed persistence for the storefront.
// Every store is built from an explicit *gorm.DB and can be rebound to an
// open transaction with WithTx where the checkout needs it.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// notFound maps gorm's missing-row error to the given domain error
func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
