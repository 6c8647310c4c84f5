package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		valid bool
	}{
		{"default", true},
		{"lesson-plan", true},
		{"tutor_v2", true},
		{"Dark", true},
		{"", false},
		{"../secret", false},
		{"..\\secret", false},
		{"styles/default", false},
		{"default.css", false},
		{".hidden", false},
		{"..", false},
		{"C:\\Windows", false},
		{"bài-giảng", false},
		{"with space", false},
		{strings.Repeat("a", maxAssetNameLength), true},
		{strings.Repeat("a", maxAssetNameLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.valid && err != nil {
				t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
			}
		})
	}
}

func TestValidateAssetName_MessageNamesInput(t *testing.T) {
	t.Parallel()

	err := ValidateAssetName("../evil")
	if err == nil || !strings.Contains(err.Error(), "../evil") {
		t.Errorf("ValidateAssetName(%q) error = %v, want message naming the input", "../evil", err)
	}
}
