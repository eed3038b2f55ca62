package services

import "errors"

// ErrValidation marks failures caught before any gateway call is made.
// Handlers map it to a 400 response; no partial record is ever left behind.
var ErrValidation = errors.New("validation failed")
