package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator so handlers share one instance;
// the validator caches struct metadata, so reuse matters.
type Validator struct {
	validate *validator.Validate
}

var (
	validatorOnce     sync.Once
	validatorInstance *Validator
)

// GetValidator returns the process-wide validator.
func GetValidator() *Validator {
	validatorOnce.Do(func() {
		validatorInstance = &Validator{validate: validator.New()}
	})
	return validatorInstance
}

// Validate checks struct tags and returns the first validation error, if any.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
