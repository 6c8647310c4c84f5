package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	// Saturday
	date := time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"vi preset", "vi", "17/10/2026"},
		{"preset is case-insensitive", "ISO", "2026-10-17"},
		{"long preset", "long", "ngày 17 tháng 10 năm 2026"},
		{"full preset", "full", "Thứ Bảy, ngày 17/10/2026"},
		{"short year", "DD.MM.YY", "17.10.26"},
		{"unpadded tokens", "D/M", "17/10"},
		{"bracket literal", "[Hà Nội,] DD/MM", "Hà Nội, 17/10"},
		{"literal characters kept", "YYYY - MM", "2026 - 10"},
		{"disabled", "none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Format(date, tt.format)
			if err != nil {
				t.Fatalf("Format(%q) error = %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormat_PadsSingleDigits(t *testing.T) {
	t.Parallel()

	date := time.Date(2027, time.March, 5, 0, 0, 0, 0, time.UTC)
	got, err := Format(date, "DD/MM/YYYY D/M")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got != "05/03/2027 5/3" {
		t.Errorf("Format() = %q, want %q", got, "05/03/2027 5/3")
	}
}

func TestFormat_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("D", MaxDateFormatLength+1)},
		{"unclosed bracket", "[ngày DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Format(time.Now(), tt.format); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("Format(%q) error = %v, want ErrInvalidDateFormat", tt.format, err)
			}
			if err := Validate(tt.format); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("Validate(%q) error = %v, want ErrInvalidDateFormat", tt.format, err)
			}
		})
	}
}

func TestPresetsAreValid(t *testing.T) {
	t.Parallel()

	for name, layout := range Presets {
		if err := Validate(layout); err != nil {
			t.Errorf("preset %q (%q) invalid: %v", name, layout, err)
		}
	}
	if err := Validate(DefaultDateFormat); err != nil {
		t.Errorf("Validate(DefaultDateFormat) error = %v", err)
	}
}
