package candydelivery

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
)

// Application error codes. They classify an error independently of the
// transport that eventually reports it.
const (
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
)

// DefaultErrorMessage is returned to clients when the real cause must not
// leak outside (internal failures, data-integrity conditions).
const DefaultErrorMessage = "internal error"

// Error is the application error type. Op names the logical operation that
// failed, Code classifies the failure, Message is safe to show to a client
// and Fields carries structured context for logs and batch responses.
type Error struct {
	Op      string
	Code    string
	Message string
	Fields  map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	var buf bytes.Buffer

	if e.Op != "" {
		fmt.Fprintf(&buf, "%s: ", e.Op)
	}

	if e.Err != nil {
		buf.WriteString(e.Err.Error())
	} else {
		if e.Code != "" {
			fmt.Fprintf(&buf, "<%s> ", e.Code)
		}
		buf.WriteString(e.Message)
	}

	return buf.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// OpError wraps err with the operation name, keeping the innermost code and
// message reachable through the chain.
func OpError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// ErrorWithCode wraps err with a classification code.
func ErrorWithCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: err}
}

// ErrorCode returns the code of the innermost *Error that carries one.
// Any non-application error is treated as internal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Code != "" {
			return e.Code
		}
		if e.Err != nil {
			return ErrorCode(e.Err)
		}
	}

	return EINTERNAL
}

// ErrorMessage returns the client-facing message of the innermost *Error
// that carries one. When no message was set the chain's leaf error text is
// used; callers only expose it for client-level codes.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != nil {
			return ErrorMessage(e.Err)
		}
		return DefaultErrorMessage
	}

	return err.Error()
}

// ErrorFields returns the structured context of the outermost *Error that
// carries any, or nil.
func ErrorFields(err error) map[string]interface{} {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return nil
		}
		if e.Fields != nil {
			return e.Fields
		}
		err = e.Err
	}
	return nil
}

// ErrCodeToHTTPStatus maps an application error to an HTTP status.
func ErrCodeToHTTPStatus(err error) int {
	switch ErrorCode(err) {
	case EINVALID, ENOTFOUND:
		return http.StatusBadRequest
	case ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// InvalidItem identifies a single rejected item of a bulk request.
type InvalidItem struct {
	ID uint64 `json:"id"`
}
