// Package dateutil formats dates for document footers using day/month
// tokens and Vietnamese month and weekday names.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is the preset used when no format is configured.
const DefaultDateFormat = "vi"

// DisabledFormat turns the footer date off.
const DisabledFormat = "none"

// Presets are named shortcuts for common layouts.
var Presets = map[string]string{
	"vi":   "DD/MM/YYYY",
	"iso":  "YYYY-MM-DD",
	"long": "[ngày] D MMMM [năm] YYYY",
	"full": "dddd, [ngày] DD/MM/YYYY",
}

var weekdays = [...]string{"Chủ nhật", "Thứ Hai", "Thứ Ba", "Thứ Tư", "Thứ Năm", "Thứ Sáu", "Thứ Bảy"}

type token struct {
	name   string
	format func(t time.Time) string
}

// tokens are tried longest first.
var tokens = []token{
	{"dddd", func(t time.Time) string { return weekdays[t.Weekday()] }},
	{"YYYY", func(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) }},
	{"MMMM", func(t time.Time) string { return "tháng " + strconv.Itoa(int(t.Month())) }},
	{"YY", func(t time.Time) string { return fmt.Sprintf("%02d", t.Year()%100) }},
	{"MM", func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) }},
	{"DD", func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) }},
	{"M", func(t time.Time) string { return strconv.Itoa(int(t.Month())) }},
	{"D", func(t time.Time) string { return strconv.Itoa(t.Day()) }},
}

// Validate checks format without formatting a date. Presets and
// DisabledFormat are valid.
func Validate(format string) error {
	_, err := Format(time.Time{}, format)
	return err
}

// Format renders t with format, a preset name or a token layout.
// Tokens: dddd, YYYY, YY, MMMM, MM, M, DD, D. Text in brackets is copied
// literally, as is any other character. DisabledFormat yields "".
func Format(t time.Time, format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if strings.EqualFold(format, DisabledFormat) {
		return "", nil
	}
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}

	var b strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, tok := range tokens {
			if strings.HasPrefix(format[i:], tok.name) {
				b.WriteString(tok.format(t))
				i += len(tok.name)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String(), nil
}
