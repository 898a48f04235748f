package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern is returned when a detection rule does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidConfig is returned for out-of-range analyzer settings.
	ErrInvalidConfig = errors.New("invalid analyzer config")

	// ErrUnsupportedAnalyzer is returned by NewAnalyzer for unknown names.
	ErrUnsupportedAnalyzer = errors.New("unsupported analyzer")
)

// InvalidPatternError reports which rule failed to compile.
type InvalidPatternError struct {
	Index   int
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %d %q: %v", e.Index, e.Pattern, e.Err)
}

// Unwrap exposes both ErrInvalidPattern and the regexp error.
func (e *InvalidPatternError) Unwrap() []error {
	return []error{ErrInvalidPattern, e.Err}
}

// UnsupportedKindError is returned when a name has no registered analyzer.
type UnsupportedKindError struct {
	Name string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported analyzer %q (available: %v)", e.Name, AnalyzerNames())
}

func (e *UnsupportedKindError) Unwrap() error {
	return ErrUnsupportedAnalyzer
}
