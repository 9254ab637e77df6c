package children

import "errors"

var (
	ErrChildNotFound         = errors.New("child not found")
	ErrFirstNameRequired     = errors.New("first name is required")
	ErrTokenGenerationFailed = errors.New("child token generation failed")
	ErrInvalidSession        = errors.New("invalid child session")
)
