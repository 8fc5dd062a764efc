package html2text

import "errors"

// Sentinel errors for library operations.
var (
	// ErrInvalidRule is returned when a rule pattern is empty or does not compile.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrInvalidWidth is returned for negative wrap widths.
	ErrInvalidWidth = errors.New("invalid width")

	// ErrInvalidOption is returned by OptionsFromMap for values that cannot be coerced.
	ErrInvalidOption = errors.New("invalid option")

	// ErrEmptyMarkdown is returned by ConvertMarkdown for empty input.
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")
)
