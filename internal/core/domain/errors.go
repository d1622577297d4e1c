package domain

import "errors"

// ErrInvalidID marks a malformed resource id in a request path. It is a
// client error, distinct from a well-formed id that resolves to nothing.
var ErrInvalidID = errors.New("invalid id")

var ErrForbidden = errors.New("access forbidden")
