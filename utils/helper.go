package utils

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

// CountryCode is the default region for phone number parsing.
var CountryCode = "IN"

// ValidatePhoneNumber checks a phone number against the given region.
// Stored values are never re-validated; only new input goes through this.
func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err
	}

	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}

	return nil
}

// ProcessValidationErrors flattens gin binding errors into field -> tag.
// Returns nil when err did not come from the validator.
func ProcessValidationErrors(err error) map[string]string {

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

// GetTypeName returns the bare struct name of T, used as the redis key prefix.
func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}
