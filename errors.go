package timecode

// Error represents a timecode error code.
type Error int

// Error codes.
const (
	ErrNone             Error = 0
	ErrInvalidFormat    Error = 1
	ErrInvalidParameter Error = 2
	ErrInvalidPosition  Error = 3
)

// errMessages contains the message of each error code.
var errMessages = [4]string{
	"No error",
	"Invalid timecode format",
	"Invalid parameter",
	"Position out of range",
}

// Error implements the error interface.
func (e Error) Error() string {
	if e >= 0 && int(e) < len(errMessages) {
		return errMessages[e]
	}
	return "unknown error"
}

// GetErrorMessage returns the message of an error code.
func GetErrorMessage(code Error) string {
	return code.Error()
}
