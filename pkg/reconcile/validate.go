package reconcile

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateMappings checks the shape of a decision set before any work starts.
func ValidateMappings(mappings *models.ImportMappings) error {
	if mappings == nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "mappings are required for execute")
	}

	err := validate.Struct(mappings)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return httperror.WrapError(http.StatusBadRequest, err)
	}

	complaints := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		complaints = append(complaints, describeFieldError(fieldErr))
	}

	return httperror.NewHTTPError(http.StatusBadRequest, "invalid mappings: "+strings.Join(complaints, "; ")).
		AddMetaValue("errors", complaints)
}

func describeFieldError(fieldErr validator.FieldError) string {
	field := strings.TrimPrefix(fieldErr.Namespace(), "ImportMappings.")
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, strings.Replace(fieldErr.Param(), " ", " is ", 1))
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fieldErr.Tag())
	}
}
