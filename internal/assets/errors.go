package assets

import (
	"errors"
	"fmt"
)

// errMissing is wrapped by every not-found error so the resolver can fall
// back without listing each kind.
var errMissing = errors.New("not found")

var (
	ErrStyleNotFound    = fmt.Errorf("style %w", errMissing)
	ErrTemplateNotFound = fmt.Errorf("template %w", errMissing)
	ErrPromptNotFound   = fmt.Errorf("prompt %w", errMissing)
)

var (
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid asset directory")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("asset outside its directory")
)

// isNotFoundError reports whether err means the asset simply is not there.
func isNotFoundError(err error) bool {
	return errors.Is(err, errMissing)
}
