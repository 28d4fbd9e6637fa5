package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation      = errors.New("validation")        // 400
	ErrNotFound        = errors.New("not found")         // 404
	ErrEmptyCart       = errors.New("cart is empty")     // 400
	ErrAlreadyPaid     = errors.New("order already paid") // 409
	ErrPaymentDeclined = errors.New("payment declined")  // 402
	ErrPersistence     = errors.New("persistence")       // 500
)

var domainErrors = []error{ErrValidation, ErrNotFound, ErrEmptyCart, ErrAlreadyPaid, ErrPaymentDeclined, ErrPersistence}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// lookupErr maps a missing row to ErrNotFound and anything else to
// ErrPersistence.
func lookupErr(op, what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return storageErr(op, err)
}

// txErr leaves errors raised inside a transaction untouched and wraps the
// rest, such as a failed commit.
func txErr(op string, err error) error {
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}
	return storageErr(op, err)
}
