package scraper

import (
	"fmt"
)

// TransportError wraps a network or HTTP-layer failure after the fetch
// client has exhausted its retries. Terminal for the run.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ScraperError signals that the expected markup anchors were absent
// after a successful fetch. The site layout has likely drifted; retrying
// will not fix it.
type ScraperError struct {
	Site    string
	Message string
}

func (e *ScraperError) Error() string {
	return fmt.Sprintf("%s: %s", e.Site, e.Message)
}

// ParseFieldError marks a single result container whose required field
// is missing or malformed. The record is skipped, the run continues.
type ParseFieldError struct {
	Site  string
	Field string
	Err   error
}

func (e *ParseFieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: field %q: %v", e.Site, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: field %q missing", e.Site, e.Field)
}

func (e *ParseFieldError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a storage write failure for one record. Logged
// by the orchestrator, never fatal to the batch.
type PersistenceError struct {
	URL string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.URL, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
