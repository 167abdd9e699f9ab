package interpret

import "fmt"

// ErrorKind classifies strict extraction failures. SyntaxError and
// NoStructureFound are document-level: the former means a candidate region
// was located but is not valid structured data, the latter that no candidate
// region exists at all. The remaining kinds are schema violations.
type ErrorKind string

const (
	ErrSyntax           ErrorKind = "syntax_error"
	ErrNoStructureFound ErrorKind = "no_structure_found"
	ErrMissingField     ErrorKind = "missing_field"
	ErrInvalidType      ErrorKind = "invalid_type"
	ErrInvalidNumber    ErrorKind = "invalid_number"
	ErrEmptyArray       ErrorKind = "empty_array"
)

// ExtractionError is the strict extractor's only error type. Path holds the
// dotted field path of the offending element, empty for document-level kinds.
type ExtractionError struct {
	Kind   ErrorKind
	Path   string
	Reason string
}

func (e *ExtractionError) Error() string {
	switch {
	case e.Path == "" && e.Reason == "":
		return string(e.Kind)
	case e.Path == "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	case e.Reason == "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Reason)
}

func missingField(path string) *ExtractionError {
	return &ExtractionError{Kind: ErrMissingField, Path: path}
}

func invalidType(path, reason string) *ExtractionError {
	return &ExtractionError{Kind: ErrInvalidType, Path: path, Reason: reason}
}

func invalidNumber(path, reason string) *ExtractionError {
	return &ExtractionError{Kind: ErrInvalidNumber, Path: path, Reason: reason}
}

func emptyArray(path string) *ExtractionError {
	return &ExtractionError{Kind: ErrEmptyArray, Path: path}
}
