package core

// Error codes for domain errors.
const (
	ErrCodeValidation   = "validation_failed"
	ErrCodeNameTaken    = "name_taken"
	ErrCodeNotInChannel = "not_in_channel"
	ErrCodeBadRequest   = "bad_request"
)

// RelayError wraps a code and human-readable message. It is delivered to the
// offending connection only; no relay error is ever fatal to the process.
type RelayError struct {
	Code    string
	Message string
}

func (e *RelayError) Error() string {
	return e.Message
}

func relayError(code, msg string) *RelayError {
	return &RelayError{Code: code, Message: msg}
}
