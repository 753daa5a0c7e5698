package model

import "time"

// Outcome records how processing one URL ended. A batch run produces one
// outcome per input URL, in input order, regardless of how many succeed.
type Outcome struct {
	// URL is the analyzed URL.
	URL string

	// Success is true when a report file was written for the URL.
	Success bool

	// ReportPath is the written report file path; empty on failure.
	ReportPath string

	// Err is the failure message; empty on success.
	Err string

	// StatusCode is the HTTP status from the fetch, nil when unknown.
	StatusCode *int

	// LoadTime is the fetch duration, nil when unknown.
	LoadTime *time.Duration
}

// Tally counts succeeded and failed outcomes.
func Tally(outcomes []Outcome) (succeeded, failed int) {
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
