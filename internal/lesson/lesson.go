// Package lesson generates lesson plans (kế hoạch bài dạy) following the
// four-activity structure of Công văn 5512, and renders them as text or
// HTML.
package lesson

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for lesson plan operations.
var (
	ErrEmptyResponse = errors.New("empty lesson plan response")
	ErrParse         = errors.New("failed to parse lesson plan")
	ErrMissingGrade  = errors.New("grade is required")
	ErrTemplate      = errors.New("lesson plan template failed")
)

// Defaults applied to blank Input fields.
const (
	DefaultSubject    = "Toán"
	DefaultDuration   = "45 phút"
	DefaultObjectives = "Theo chuẩn kiến thức kỹ năng của Bộ GD&ĐT"
)

// Input describes the lesson to prepare.
type Input struct {
	Subject    string `json:"subject"`
	Topic      string `json:"topic"`
	Grade      string `json:"grade"`
	Duration   string `json:"duration"`
	Objectives string `json:"objectives"`
}

// Validate checks that the grade is set.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Grade) == "" {
		return ErrMissingGrade
	}
	return nil
}

// withDefaults fills blank fields.
func (in Input) withDefaults() Input {
	in.Subject = orDefault(in.Subject, DefaultSubject)
	in.Duration = orDefault(in.Duration, DefaultDuration)
	in.Objectives = orDefault(in.Objectives, DefaultObjectives)
	in.Topic = orDefault(in.Topic, fmt.Sprintf("Bài học %s %s", in.Subject, strings.TrimSpace(in.Grade)))
	return in
}

// Prompt returns the user prompt sent to the model.
func (in Input) Prompt() string {
	in = in.withDefaults()
	var b strings.Builder
	fmt.Fprintf(&b, "Hãy soạn giáo án cho chủ đề: %q\n", in.Topic)
	fmt.Fprintf(&b, "Môn: %s\n", in.Subject)
	fmt.Fprintf(&b, "Lớp: %s\n", strings.TrimSpace(in.Grade))
	fmt.Fprintf(&b, "Thời lượng: %s\n", in.Duration)
	fmt.Fprintf(&b, "Yêu cầu cần đạt đầu vào: %q\n", in.Objectives)
	return b.String()
}

// Analysis is the model's assessment of the requested objectives.
type Analysis struct {
	CompetencyAssessment []string `json:"competencyAssessment"`
	Suggestions          []string `json:"suggestions"`
}

// Objectives are the three goal groups of a lesson.
type Objectives struct {
	Knowledge  string `json:"knowledge"`
	Competence string `json:"competence"`
	Quality    string `json:"quality"`
}

// Activity is one step of the lesson.
type Activity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Objective    string `json:"objective"`
	Content      string `json:"content"`
	Product      string `json:"product"`
	Organization string `json:"organization"`
}

// Plan is the lesson plan itself.
type Plan struct {
	Title      string     `json:"title"`
	Grade      string     `json:"grade"`
	Objectives Objectives `json:"objectives"`
	Equipment  string     `json:"equipment"`
	Activities []Activity `json:"activities"`
}

// Result is the full model response.
type Result struct {
	Analysis Analysis `json:"analysis"`
	Plan     Plan     `json:"lessonPlan"`
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}
