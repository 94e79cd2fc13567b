// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Caller-correctable input problems. Never retried.
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnknownIndustry ErrorCode = "UNKNOWN_INDUSTRY"
	ErrCodeUnknownLocation ErrorCode = "UNKNOWN_LOCATION"
	ErrCodeParse           ErrorCode = "PARSE_ERROR"

	ErrCodeProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"

	// Backend failures while loading profiles or catalogs.
	ErrCodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT_ERROR"

	// Workflow broker connectivity.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Field     string                 `json:"field,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewValidationError reports a malformed input field.
func NewValidationError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   "Input validation failed",
		Details:   details,
		Field:     field,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError reports job variables or a request body that is not valid JSON.
func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParse,
		Message:   "Input could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnknownIndustryError(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownIndustry,
		Message:   "No benchmark for industry",
		Details:   fmt.Sprintf("industryKey: %s", key),
		Field:     "industryKey",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnknownLocationError(tier string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownLocation,
		Message:   "No multiplier for location tier",
		Details:   fmt.Sprintf("locationTier: %s", tier),
		Field:     "locationTier",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewProfileNotFoundError(profileID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileNotFound,
		Message:   "Investor profile not found",
		Details:   fmt.Sprintf("profileId: %s", profileID),
		Field:     "profileId",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogUnavailableError wraps a storage, cache or search failure.
func NewCatalogUnavailableError(backend string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogUnavailable,
		Message:   fmt.Sprintf("Catalog backend '%s' unavailable", backend),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Operation '%s' timed out", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalServiceError reports a failure talking to the workflow broker.
func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service '%s' failed", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal codes to the error codes modelled on the
// boundary events of the matching and projection processes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidation:         "INVALID_INPUT",
	ErrCodeParse:              "INVALID_INPUT",
	ErrCodeUnknownIndustry:    "UNKNOWN_BENCHMARK",
	ErrCodeUnknownLocation:    "UNKNOWN_BENCHMARK",
	ErrCodeProfileNotFound:    "PROFILE_NOT_FOUND",
	ErrCodeCatalogUnavailable: "CATALOG_UNAVAILABLE",
	ErrCodeTimeout:            "CATALOG_UNAVAILABLE",
	ErrCodeExternalService:    "EXTERNAL_SERVICE_ERROR",
	ErrCodeInternal:           "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogUnavailable, ErrCodeExternalService:
		return 3
	case ErrCodeTimeout:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	if stdErr.Field != "" {
		vars["errorField"] = stdErr.Field
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	case strings.HasPrefix(codeStr, "UNKNOWN_"):
		return "BENCHMARK"
	case strings.Contains(codeStr, "PROFILE") || strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	case strings.Contains(codeStr, "EXTERNAL"):
		return "EXTERNAL"
	default:
		return "OTHER"
	}
}
