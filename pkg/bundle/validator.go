package bundle

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/mint/pkg/models"
)

// SupportedMajorVersion is the only exportVersion major this service reads.
const SupportedMajorVersion = 1

// listFields are the optional entity lists; when present they must be arrays.
var listFields = []string{
	"cocktailRecipeImages",
	"cocktailRecipeSteps",
	"cocktailRecipeGarnishes",
	"cocktailRecipeIngredients",
	"glasses",
	"glassImages",
	"garnishes",
	"garnishImages",
	"ingredients",
	"ingredientImages",
	"ingredientVolumes",
	"ice",
	"units",
	"stepActions",
}

// Validate checks the shape of a raw bundle. It never checks that references resolve.
func Validate(raw []byte) models.ValidationResult {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return models.ValidationResult{Errors: []string{"bundle must be a JSON object"}}
	}

	var complaints []string
	complain := func(format string, args ...any) {
		complaints = append(complaints, fmt.Sprintf(format, args...))
	}

	if version, ok := stringField(fields, "exportVersion", complain); ok {
		if major, err := majorVersion(version); err != nil {
			complain("exportVersion %q is not a version", version)
		} else if major != SupportedMajorVersion {
			complain("exportVersion %q is not supported, expected %d.x", version, SupportedMajorVersion)
		}
	}

	if date, ok := stringField(fields, "exportDate", complain); ok {
		if _, err := time.Parse(time.RFC3339Nano, date); err != nil {
			complain("exportDate %q must be an ISO-8601 timestamp", date)
		}
	}

	if source, ok := fields["exportedFrom"]; ok && !isNull(source) {
		var object map[string]json.RawMessage
		if err := json.Unmarshal(source, &object); err != nil {
			complain("exportedFrom must be an object")
		}
	}

	summary := &models.BundleSummary{Cocktails: []models.EntityRef{}}
	if list, ok := fields["cocktailRecipes"]; !ok || isNull(list) {
		complain("cocktailRecipes is required")
	} else {
		var recipes []json.RawMessage
		if err := json.Unmarshal(list, &recipes); err != nil {
			complain("cocktailRecipes must be an array")
		} else if len(recipes) == 0 {
			complain("cocktailRecipes must not be empty")
		} else {
			for i, recipe := range recipes {
				var ref models.EntityRef
				if err := json.Unmarshal(recipe, &ref); err != nil || ref.ID == "" {
					complain("cocktailRecipes[%d] must be an object with a string id", i)
					continue
				}
				summary.Cocktails = append(summary.Cocktails, ref)
			}
		}
	}

	for _, name := range listFields {
		list, ok := fields[name]
		if !ok || isNull(list) {
			continue
		}
		var entries []json.RawMessage
		if err := json.Unmarshal(list, &entries); err != nil {
			complain("%s must be an array", name)
		}
	}

	if len(complaints) > 0 {
		return models.ValidationResult{Errors: complaints}
	}

	summary.CocktailCount = len(summary.Cocktails)
	return models.ValidationResult{Valid: true, Summary: summary}
}

// Decode validates raw and parses it into a bundle. A structurally invalid
// bundle is a 400 carrying the complaints as meta.
func Decode(raw []byte) (*models.ExportBundle, error) {
	result := Validate(raw)
	if !result.Valid {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "invalid bundle: "+strings.Join(result.Errors, "; ")).
			AddMetaValue("errors", result.Errors)
	}

	var b models.ExportBundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid bundle: %v", err))
	}

	return &b, nil
}

func stringField(fields map[string]json.RawMessage, name string, complain func(string, ...any)) (string, bool) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		complain("%s is required", name)
		return "", false
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		complain("%s must be a string", name)
		return "", false
	}
	if strings.TrimSpace(value) == "" {
		complain("%s is required", name)
		return "", false
	}

	return value, true
}

func majorVersion(version string) (int, error) {
	major, _, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(version), "v"), ".")
	return strconv.Atoi(major)
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
