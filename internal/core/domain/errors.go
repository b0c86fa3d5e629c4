package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a descriptor generation failure.
type ErrorCode string

const (
	// CodeExtractionFailed indicates input could not be read or decoded.
	CodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"

	// CodeMalformedClass indicates a class file that does not parse.
	CodeMalformedClass ErrorCode = "MALFORMED_CLASS"

	// CodeInvalidExecute indicates an illegal forked-execution combination.
	CodeInvalidExecute ErrorCode = "INVALID_EXECUTE"

	// CodeDuplicateGoal indicates two goals share a name.
	CodeDuplicateGoal ErrorCode = "DUPLICATE_GOAL"

	// CodeNoDescriptors indicates no extractor produced a goal.
	CodeNoDescriptors ErrorCode = "NO_DESCRIPTORS"

	// CodeInvalidDescriptor indicates a semantically invalid goal description.
	CodeInvalidDescriptor ErrorCode = "INVALID_DESCRIPTOR"

	// CodeInvalidParameter indicates a parameter declaration that cannot be used.
	CodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// CodeDuplicateParameter indicates two parameters of one goal share a name.
	CodeDuplicateParameter ErrorCode = "DUPLICATE_PARAMETER"

	// CodeOrphanedMetadata indicates script metadata without its script.
	CodeOrphanedMetadata ErrorCode = "ORPHANED_METADATA"
)

// ExtractionError reports that input could not be read, decoded or combined.
type ExtractionError struct {
	Code    ErrorCode
	Message string
	Class   string
	Member  string
	File    string
	Err     error
}

// NewExtractionError creates an extraction failure.
func NewExtractionError(code ErrorCode, message string, cause error) *ExtractionError {
	return &ExtractionError{Code: code, Message: message, Err: cause}
}

// WithClass records the offending class.
func (e *ExtractionError) WithClass(name string) *ExtractionError {
	e.Class = name
	return e
}

// WithMember records the offending annotation member or field.
func (e *ExtractionError) WithMember(name string) *ExtractionError {
	e.Member = name
	return e
}

// WithFile records the offending file or archive.
func (e *ExtractionError) WithFile(path string) *ExtractionError {
	e.File = path
	return e
}

func (e *ExtractionError) Error() string {
	return formatError(string(e.Code), e.Message, e.location(), e.Err)
}

func (e *ExtractionError) location() string {
	var parts []string
	if e.File != "" {
		parts = append(parts, "file "+e.File)
	}
	if e.Class != "" {
		if e.Member != "" {
			parts = append(parts, fmt.Sprintf("class %s#%s", e.Class, e.Member))
		} else {
			parts = append(parts, "class "+e.Class)
		}
	}
	return strings.Join(parts, ", ")
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// InvalidDescriptorError reports input that was read but describes an
// invalid goal.
type InvalidDescriptorError struct {
	Code    ErrorCode
	Message string
	Goal    string
	Class   string
	Err     error
}

// NewInvalidDescriptorError creates an invalid descriptor failure.
func NewInvalidDescriptorError(code ErrorCode, message string) *InvalidDescriptorError {
	return &InvalidDescriptorError{Code: code, Message: message}
}

// WithGoal records the goal being described.
func (e *InvalidDescriptorError) WithGoal(goal string) *InvalidDescriptorError {
	e.Goal = goal
	return e
}

// WithClass records the implementing class or script.
func (e *InvalidDescriptorError) WithClass(name string) *InvalidDescriptorError {
	e.Class = name
	return e
}

// WithCause records an underlying error.
func (e *InvalidDescriptorError) WithCause(err error) *InvalidDescriptorError {
	e.Err = err
	return e
}

func (e *InvalidDescriptorError) Error() string {
	var loc []string
	if e.Goal != "" {
		loc = append(loc, "goal "+e.Goal)
	}
	if e.Class != "" {
		loc = append(loc, "class "+e.Class)
	}
	return formatError(string(e.Code), e.Message, strings.Join(loc, ", "), e.Err)
}

func (e *InvalidDescriptorError) Unwrap() error {
	return e.Err
}

func formatError(code, message, location string, cause error) string {
	var b strings.Builder
	b.WriteString(code)
	b.WriteString(": ")
	b.WriteString(message)
	if location != "" {
		b.WriteString(" (")
		b.WriteString(location)
		b.WriteString(")")
	}
	if cause != nil {
		b.WriteString(": ")
		b.WriteString(cause.Error())
	}
	return b.String()
}

// IsExtraction reports whether err wraps an ExtractionError.
func IsExtraction(err error) bool {
	var e *ExtractionError
	return errors.As(err, &e)
}

// IsInvalidDescriptor reports whether err wraps an InvalidDescriptorError.
func IsInvalidDescriptor(err error) bool {
	var e *InvalidDescriptorError
	return errors.As(err, &e)
}

// CodeOf returns the code of the first typed error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var ee *ExtractionError
	var ie *InvalidDescriptorError
	switch {
	case errors.As(err, &ee):
		return ee.Code
	case errors.As(err, &ie):
		return ie.Code
	}
	return ""
}
