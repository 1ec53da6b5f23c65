package relay

// Error is a relay failure with the status it is reported under.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Hint       string `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}
