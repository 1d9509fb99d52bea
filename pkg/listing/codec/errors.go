package codec

import (
	"errors"
	"fmt"
)

// Kind classifies why a composition failed.
type Kind string

const (
	KindImagePayloadMissing      Kind = "ImagePayloadMissing"
	KindUnsupportedSaleType      Kind = "UnsupportedSaleType"
	KindUnsupportedObjectType    Kind = "UnsupportedObjectType"
	KindUnknownMessagingProtocol Kind = "UnknownMessagingProtocol"
	KindCategoryResolutionFailed Kind = "CategoryResolutionFailed"
	KindPayloadResolutionFailed  Kind = "PayloadResolutionFailed"
	KindMissingField             Kind = "MissingField"
)

var (
	ErrImagePayloadMissing      = errors.New("no RESIZED or ORIGINAL image data stored")
	ErrUnsupportedSaleType      = errors.New("unsupported sale type")
	ErrUnsupportedObjectType    = errors.New("unsupported object type")
	ErrUnknownMessagingProtocol = errors.New("unknown messaging protocol")
	ErrCategoryResolutionFailed = errors.New("category resolution failed")
	ErrPayloadResolutionFailed  = errors.New("payload resolution failed")
	ErrMissingField             = errors.New("required field missing")
)

var kindErrors = map[Kind]error{
	KindImagePayloadMissing:      ErrImagePayloadMissing,
	KindUnsupportedSaleType:      ErrUnsupportedSaleType,
	KindUnsupportedObjectType:    ErrUnsupportedObjectType,
	KindUnknownMessagingProtocol: ErrUnknownMessagingProtocol,
	KindCategoryResolutionFailed: ErrCategoryResolutionFailed,
	KindPayloadResolutionFailed:  ErrPayloadResolutionFailed,
	KindMissingField:             ErrMissingField,
}

// ComposeError is returned by Compose and Decompose. It matches both the sentinel of its Kind
// and the underlying cause with errors.Is.
type ComposeError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *ComposeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s at %s: %v", e.Kind, e.Field, kindErrors[e.Kind])
	}
	return fmt.Sprintf("%s at %s: %v", e.Kind, e.Field, e.Err)
}

func (e *ComposeError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel, ok := kindErrors[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf reports the Kind of the first ComposeError in err's chain.
func KindOf(err error) (Kind, bool) {
	var composeErr *ComposeError
	if errors.As(err, &composeErr) {
		return composeErr.Kind, true
	}
	return "", false
}

func newError(kind Kind, field string, err error) *ComposeError {
	return &ComposeError{Kind: kind, Field: field, Err: err}
}
