package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/keystore"
	"github.com/alnah/go-mdmath/internal/tutor"
)

const defaultTranscriptTitle = "Hỏi đáp cùng Thầy Long"

// chatFlags holds all flags for the chat command.
type chatFlags struct {
	common commonFlags
	render renderFlags
	out    outputFlags
	image  string
	raw    bool
	models []string
	grade  int
}

func runChat(ctx context.Context, args []string, env *Environment) error {
	f := &chatFlags{}
	fs := newFlagSet("chat")
	f.common.register(fs)
	f.render.register(fs)
	f.out.register(fs)
	fs.StringVarP(&f.image, "image", "i", "", "attach an image of the exercise")
	fs.BoolVar(&f.raw, "raw", false, "print the answer as Markdown instead of HTML")
	fs.StringSliceVarP(&f.models, "models", "m", nil, "model fallback chain, best first")
	fs.IntVarP(&f.grade, "grade", "g", 0, "show suggested questions for grade 10, 11 or 12")

	positional, err := parseFlags(fs, args, env, printChatUsage)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(env, &f.common)
	if err != nil {
		return err
	}

	s, err := newRenderSetup(ctx, cfg, &f.render, env, logger(env, f.common.verbose))
	if err != nil {
		return err
	}
	defer s.Close()

	session := &chatSession{
		env:    env,
		cfg:    cfg,
		setup:  s,
		models: firstNonEmptyList(f.models, cfg.Tutor.Models),
		logf:   logger(env, f.common.verbose),
	}

	question := strings.TrimSpace(strings.Join(positional, " "))
	if question == "" && f.image == "" {
		return chatLoop(ctx, session, f, cfg)
	}

	msg, err := userMessage(question, f.image)
	if err != nil {
		return err
	}

	askCtx, cancel := withTimeout(ctx, f.common.timeout, cfg.TutorTimeout())
	defer cancel()

	live := func(chunk string) {
		if f.raw {
			fmt.Fprint(env.Stdout, chunk)
		} else if !f.common.quiet {
			fmt.Fprint(env.Stderr, chunk)
		}
	}
	answer, fragment, err := session.ask(askCtx, msg, live)
	if err != nil {
		return err
	}

	if f.raw {
		fmt.Fprintln(env.Stdout)
		if f.out.output != "" {
			return writeOutput(env.Stdout, f.out.output, answer+"\n")
		}
		return nil
	}
	if !f.common.quiet {
		fmt.Fprintln(env.Stderr)
	}
	return emit(ctx, s, outputTarget{
		path:  f.out.output,
		title: firstNonEmpty(f.out.title, defaultTranscriptTitle),
		page:  f.out.page,
	}, fragment)
}

// userMessage builds the question turn, attaching imagePath when set.
func userMessage(question, imagePath string) (tutor.Message, error) {
	msg := tutor.NewMessage(tutor.RoleUser, question)
	if imagePath == "" {
		return msg, nil
	}
	data, err := os.ReadFile(imagePath) // #nosec G304 -- user-provided image path
	if err != nil {
		return msg, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	msg.Image = tutor.ImageDataURL(data)
	return msg, nil
}

// chatLoop runs an interactive conversation on stdin. Answers stream to
// stdout as Markdown; the rendered transcript goes to --output at the end.
func chatLoop(ctx context.Context, session *chatSession, f *chatFlags, cfg *config.Config) error {
	env := session.env
	prompt := color.New(color.FgCyan, color.Bold)
	if !f.common.quiet {
		printChatBanner(env.Stdout, f.grade)
	}

	scanner := bufio.NewScanner(env.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

loop:
	for {
		if !f.common.quiet {
			prompt.Fprint(env.Stdout, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			break loop
		case "/reset":
			session.reset()
			continue
		}

		askCtx, cancel := withTimeout(ctx, f.common.timeout, cfg.TutorTimeout())
		_, _, err := session.ask(askCtx, tutor.NewMessage(tutor.RoleUser, line), func(chunk string) {
			fmt.Fprint(env.Stdout, chunk)
		})
		cancel()
		fmt.Fprintln(env.Stdout)

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, keystore.ErrNoAPIKey) {
				return err
			}
			printError(env.Stderr, err, env)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
	}

	if f.out.output == "" {
		return nil
	}
	return emit(ctx, session.setup, outputTarget{
		path:  f.out.output,
		title: firstNonEmpty(f.out.title, defaultTranscriptTitle),
		page:  true,
	}, session.transcript())
}

func printChatBanner(w io.Writer, grade int) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintln(w, "Thầy Long đây! Em cứ hỏi bài nhé.")
	fmt.Fprintln(w, "Gõ /reset để bắt đầu lại, /exit để thoát.")
	if topic, ok := tutor.TopicForGrade(grade); ok {
		fmt.Fprintf(w, "\nGợi ý cho %s:\n", topic.Title)
		for _, p := range topic.Prompts {
			fmt.Fprintf(w, "  • %s\n", p)
		}
	}
	fmt.Fprintln(w)
}

// firstNonEmptyList returns the first list with entries.
func firstNonEmptyList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}
