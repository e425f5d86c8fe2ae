package oss

import (
	"fmt"
)

// Kind tags the failure class of an operation error.
type Kind int

const (
	KindTransport Kind = iota
	KindHeader
	KindDecode
	KindPut
	KindGet
	KindCopy
	KindDelete
	KindHead
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHeader:
		return "header"
	case KindDecode:
		return "decode"
	case KindPut:
		return "put"
	case KindGet:
		return "get"
	case KindCopy:
		return "copy"
	case KindDelete:
		return "delete"
	case KindHead:
		return "head"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Error is the single failure type of the client: a kind, a context message,
// the HTTP status when the service answered, and the wrapped cause when a
// lower layer failed.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oss %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("oss %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// statusError classifies a non-2xx service answer. The numeric status code
// is always part of the message.
func statusError(kind Kind, op string, status int) *Error {
	return &Error{
		Kind:       kind,
		Message:    fmt.Sprintf("can not %s object, status code: %d", op, status),
		StatusCode: status,
	}
}

func decodeError(msg string, err error) *Error {
	return &Error{Kind: KindDecode, Message: msg, Err: err}
}

func success(status int) bool {
	return status/100 == 2
}
