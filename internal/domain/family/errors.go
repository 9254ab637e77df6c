package family

import "errors"

var (
	ErrParentNotFound       = errors.New("parent not found")
	ErrShareCodeNotFound    = errors.New("share code not found")
	ErrInvalidShareCode     = errors.New("share code must be 6 characters")
	ErrAlreadyInFamily      = errors.New("already in family")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrFamilyNameRequired   = errors.New("family name is required")
	ErrCodeGenerationFailed = errors.New("share code generation failed")
)
