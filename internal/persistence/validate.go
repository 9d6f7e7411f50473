package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of an entity. Failures wrap ErrMalformedInput
// and name the offending fields.
func Validate(entity any) error {
	if err := validate.Struct(entity); err != nil {
		return malformed(err)
	}
	return nil
}

// ValidateName checks a bare key such as a tag name or settings key.
func ValidateName(kind, name string) error {
	if err := validate.Var(name, "required"); err != nil {
		return fmt.Errorf("%w: %s is required", ErrMalformedInput, kind)
	}
	return nil
}

func malformed(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrMalformedInput, strings.Join(problems, ", "))
}

// NewID returns a random identifier for a new Event, RecurringTask, Todo or
// NotificationRecord. Callers may supply their own ids instead.
func NewID() string {
	return uuid.NewString()
}
