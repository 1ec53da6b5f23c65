package discovery

import "fmt"

// NetworkError reports a fetch that failed or timed out.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError reports a fetched body that is not a spec document.
type ValidationError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.URL, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ExhaustedStrategiesError is the only failure Discover reports.
type ExhaustedStrategiesError struct {
	Attempts int
}

func (e *ExhaustedStrategiesError) Error() string {
	return "no valid spec found"
}
