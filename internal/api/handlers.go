package api

import "strings"

// Services flag rejected input by prefixing the joined field errors,
// see the validate.Struct call sites.
func isValidationError(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "validation error")
}
