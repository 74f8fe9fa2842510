package service

import (
	"errors"

	"gorm.io/gorm"
)

// notFound translates gorm's missing-row error into the given domain error and
// passes everything else through.
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
