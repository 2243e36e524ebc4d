package core

import "fmt"

// ParsingError indicates that raw backlog card data could not be decoded
// into a BacklogCard. It is always surfaced to the caller: parsing failures
// are fatal for the run, unlike the lenient field-level coercions inside
// the extractors.
type ParsingError struct {
	Msg string
	Err error
}

func (e *ParsingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ParsingError) Unwrap() error {
	return e.Err
}
