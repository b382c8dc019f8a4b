package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// PayloadInvalid indicates a simulation payload is missing keys or has the wrong shape
	PayloadInvalid ErrorCode = "PAYLOAD_INVALID"
	// CountMismatch indicates declared counts disagree with the decoded lists
	CountMismatch ErrorCode = "COUNT_MISMATCH"
	// Incomparable indicates two values have no defined order or comparison
	Incomparable ErrorCode = "INCOMPARABLE"
	// DuplicateControls indicates a sweep already holds an entry for the controls
	DuplicateControls ErrorCode = "DUPLICATE_CONTROLS"
	// ModeMismatch indicates a pattern does not fit the sweep's diffraction mode
	ModeMismatch ErrorCode = "MODE_MISMATCH"
	// BaselineNotFound indicates no baseline is stored for a feature/name pair
	BaselineNotFound ErrorCode = "BASELINE_NOT_FOUND"
	// BaselineCorrupt indicates a stored baseline failed digest verification
	BaselineCorrupt ErrorCode = "BASELINE_CORRUPT"
	// UnsupportedFormat indicates a document format that cannot be decoded
	UnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ConfigInvalid indicates a configuration value failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// DPError is a dpcheck error with a stable code, message and suggested fixes
type DPError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new DPError with the fixes registered for its code
func New(code ErrorCode, message string, cause error) *DPError {
	return &DPError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Newf creates a new DPError with a formatted message and no cause
func Newf(code ErrorCode, format string, args ...interface{}) *DPError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *DPError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DPError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DPError with the same code.
func (e *DPError) Is(target error) bool {
	t, ok := target.(*DPError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetails adds details to the error
func (e *DPError) WithDetails(details interface{}) *DPError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first DPError in err's chain, or InternalError.
func CodeOf(err error) ErrorCode {
	var de *DPError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return InternalError
}

// HasCode reports whether err's chain contains a DPError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var de *DPError
	for err != nil {
		if stderrors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.cause
			continue
		}
		return false
	}
	return false
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	BaselineNotFound: {
		{
			Type:        RunCommand,
			Command:     "dpcheck baseline record --feature ${feature} ${document}",
			Safe:        true,
			Description: "Record a baseline from a known-good run",
		},
	},
	BaselineCorrupt: {
		{
			Type:        RunCommand,
			Command:     "dpcheck baseline delete --feature ${feature} ${name}",
			Safe:        false,
			Description: "Remove the damaged baseline and record it again",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "dpcheck config show",
			Safe:        true,
			Description: "Inspect the effective configuration",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
