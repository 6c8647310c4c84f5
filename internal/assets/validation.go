package assets

import "fmt"

// maxAssetNameLength bounds names taken from config files and flags.
const maxAssetNameLength = 64

// ValidateAssetName accepts names made of ASCII letters, digits, '-' and '_'.
// Anything else, including separators, dots and non-ASCII letters, is
// rejected with ErrInvalidAssetName so a name can never leave its asset
// directory or change its extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxAssetNameLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidAssetName, len(name), maxAssetNameLength)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
