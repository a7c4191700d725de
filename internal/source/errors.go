package source

import "fmt"

// FetchError is a network, timeout or status failure for one source.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("source: fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means a whole document could not be read. Malformed rows never
// produce one; they are skipped.
type ParseError struct {
	Source string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("source: parse %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("source: parse %s (%s): %v", e.Source, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
