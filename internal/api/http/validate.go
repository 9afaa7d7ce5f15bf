package http

import "github.com/go-playground/validator/v10"

// Shared request validator. Validation failures surface as inline 400s; the
// caller fixes the payload and resubmits.
var validate = validator.New()
