package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/alnah/go-mdmath/internal/tutor"
)

// runTopics lists the suggested questions, optionally for one grade.
func runTopics(args []string, env *Environment) error {
	var grade int
	fs := newFlagSet("topics")
	fs.IntVarP(&grade, "grade", "g", 0, "only this grade (10, 11 or 12)")
	if _, err := parseFlags(fs, args, env, printTopicsUsage); err != nil {
		return err
	}

	list := tutor.Topics()
	if grade != 0 {
		t, ok := tutor.TopicForGrade(grade)
		if !ok {
			return fmt.Errorf("%w: no topics for grade %d (10, 11 or 12)", ErrUsage, grade)
		}
		list = []tutor.Topic{t}
	}

	title := color.New(color.FgCyan, color.Bold)
	for i, t := range list {
		if i > 0 {
			fmt.Fprintln(env.Stdout)
		}
		title.Fprintln(env.Stdout, t.Title)
		for _, p := range t.Prompts {
			fmt.Fprintf(env.Stdout, "  • %s\n", p)
		}
	}
	return nil
}
