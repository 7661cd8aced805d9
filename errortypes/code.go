package errortypes

// Defines numeric codes for well-known errors. Codes are stable identifiers
// and retired codes are not reused, hence the gaps.
const (
	UnknownErrorCode           = 999
	BadInputErrorCode          = 2
	BadServerResponseErrorCode = 3
	FailedToMarshalErrorCode   = 5
	FailedToUnmarshalErrorCode = 6
)

// Coder provides an error or warning code with severity.
type Coder interface {
	Code() int
	Severity() Severity
}

// ReadCode returns the error or warning code, or UnknownErrorCode if unavailable.
func ReadCode(err error) int {
	if e, ok := err.(Coder); ok {
		return e.Code()
	}
	return UnknownErrorCode
}
