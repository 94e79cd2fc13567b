package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/akkash/bizsearch-new-sub002/internal/common/errors"
	"github.com/akkash/bizsearch-new-sub002/pkg/registry"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator holds the compiled input schema of every registered activity.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles each activity's input schema. Activities without a
// schema are accepted as-is.
func NewValidator(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(reg.Activities))}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := CompileSchema(a.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("input schema of %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// Has reports whether taskType has a compiled input schema.
func (v *Validator) Has(taskType string) bool {
	_, ok := v.schemas[taskType]
	return ok
}

// Validate checks doc against the input schema of taskType. The returned
// error is a VALIDATION_ERROR StandardError naming the first failing field.
func (v *Validator) Validate(taskType string, doc interface{}) error {
	schema, ok := v.schemas[taskType]
	if !ok {
		return nil
	}
	result := ValidateDocument(schema, doc)
	if result.Valid {
		return nil
	}
	first := result.Errors[0]
	return errors.NewValidationError(first.Field, strings.Join(result.GetErrorMessages(), "; "))
}

func CompileSchema(schema map[string]interface{}) (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
}

// ValidateDocument runs schema against doc. Errors are sorted by field so
// the result is stable.
func ValidateDocument(schema *gojsonschema.Schema, doc interface{}) *ValidationResult {
	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "INVALID_DOCUMENT",
		}}}
	}

	errs := make([]ValidationError, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldOf(re),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{Valid: res.Valid(), Errors: errs}
}

// fieldOf names the offending field, descending into the missing property
// for "required" failures.
func fieldOf(re gojsonschema.ResultError) string {
	field := re.Field()
	prop, ok := re.Details()["property"].(string)
	if !ok || prop == "" {
		return field
	}
	if field == "(root)" {
		return prop
	}
	return field + "." + prop
}

var activityNaming = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)

// ValidateActivityNaming checks the domain.subdomain.action convention.
func ValidateActivityNaming(activityID string) error {
	if !activityNaming.MatchString(activityID) {
		return fmt.Errorf("activity ID %q must follow format: domain.subdomain.action (e.g., franchise.match.rank)", activityID)
	}
	return nil
}

// GetErrorMessages returns "field: message" lines.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// GetErrorsForField returns errors for field and anything nested under it.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
