package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// recordValidate is the shared validator for records.
var recordValidate = validator.New()

// validateRecord checks the struct-level rules of a record.
func validateRecord(r Record) error {
	err := recordValidate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate record: %w", err)
	}

	fe := verrs[0]
	return &ValidationError{
		Category: r.Category,
		ID:       r.ID,
		Field:    fe.Field(),
		Message:  describeTag(fe),
	}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
