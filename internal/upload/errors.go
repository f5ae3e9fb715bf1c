// internal/upload/errors.go
package upload

import "errors"

var (
	ErrUnknownEntityType = errors.New("upload: no rule configured for entity type")
	ErrMissingField      = errors.New("upload: instance has no value for configured field")
	ErrNoExtension       = errors.New("upload: filename has no extension")
	ErrInvalidExtension  = errors.New("upload: filename extension contains a path separator")
	ErrInvalidConfig     = errors.New("upload: invalid configuration")
	ErrNotAnEntity       = errors.New("upload: instance does not expose fields")
)
