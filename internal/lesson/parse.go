package lesson

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// codeFence matches the ```json fence lines a model may wrap its answer in.
var codeFence = regexp.MustCompile("(?m)^[ \t]*```[a-zA-Z]*[ \t]*$")

// Parse decodes a model response into a Result. Surrounding code fences are
// removed first.
func Parse(text string) (*Result, error) {
	text = strings.TrimSpace(codeFence.ReplaceAllString(text, ""))
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var res Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &res, nil
}
