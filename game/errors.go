package game

import "fmt"

// Code classifies engine errors so callers can decide how to surface them.
type Code int

const (
	CodeUnknown Code = iota
	CodeParse
	CodeInvalidDelta
	CodeOutOfRange
	CodeIllegalRuleSwitch
	CodeSessionEnded
	CodeInvalidTeam
	CodeInvalidRuleMode
	CodeInvalidSnapshot
)

func (c Code) String() string {
	switch c {
	case CodeParse:
		return "ParseError"
	case CodeInvalidDelta:
		return "InvalidDelta"
	case CodeOutOfRange:
		return "OutOfRangeError"
	case CodeIllegalRuleSwitch:
		return "IllegalRuleSwitch"
	case CodeSessionEnded:
		return "SessionAlreadyEnded"
	case CodeInvalidTeam:
		return "InvalidTeam"
	case CodeInvalidRuleMode:
		return "InvalidRuleMode"
	case CodeInvalidSnapshot:
		return "InvalidSnapshot"
	default:
		return "Unknown"
	}
}

// Error is the engine's error type. Two errors match under errors.Is when their
// codes are equal, so callers compare against the Err* sentinels below.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	ErrParse             = &Error{Code: CodeParse}
	ErrInvalidDelta      = &Error{Code: CodeInvalidDelta}
	ErrOutOfRange        = &Error{Code: CodeOutOfRange}
	ErrIllegalRuleSwitch = &Error{Code: CodeIllegalRuleSwitch}
	ErrSessionEnded      = &Error{Code: CodeSessionEnded}
	ErrInvalidTeam       = &Error{Code: CodeInvalidTeam}
	ErrInvalidRuleMode   = &Error{Code: CodeInvalidRuleMode}
	ErrInvalidSnapshot   = &Error{Code: CodeInvalidSnapshot}
)

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds a coded error for layers outside this package.
func Errorf(code Code, format string, args ...any) *Error {
	return newError(code, format, args...)
}

// WrapError attaches a code to an underlying cause.
func WrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
