package mdmath

import "errors"

// Sentinel errors for library operations.
var (
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyleNotFound    = errors.New("style not found")
	ErrStyleRead        = errors.New("failed to read style file")
)
