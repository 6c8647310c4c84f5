package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathtutor <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render Markdown with LaTeX to HTML or PDF")
	fmt.Fprintln(w, "  chat       Ask Thầy Long a math question (interactive without a question)")
	fmt.Fprintln(w, "  lesson     Generate a lesson plan (kế hoạch bài dạy)")
	fmt.Fprintln(w, "  key        Manage Gemini API keys")
	fmt.Fprintln(w, "  topics     List suggested questions by grade")
	fmt.Fprintln(w, "  graph      Plot y = ax + b or y = ax² + bx + c as SVG")
	fmt.Fprintln(w, "  doctor     Check config, API keys and Chrome")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mathtutor help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>         Timeout, e.g. 90s or 2m")
	fmt.Fprintln(w, "  -q, --quiet               Only print errors")
	fmt.Fprintln(w, "  -v, --verbose             Print progress and model switches")
}

func printRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -e, --engine <name>       Formula engine: mathml (default), katex, none")
	fmt.Fprintln(w, "      --highlight <style>   Color code blocks with a chroma style")
	fmt.Fprintln(w, "  -s, --style <s>           Style name, CSS file, or CSS content")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding embedded styles and prompts")
	fmt.Fprintln(w, "      --class <name>        Extra class on the content container")
}

func printOutputFlags(w io.Writer) {
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file; .pdf prints through Chrome")
	fmt.Fprintln(w, "      --title <s>           Page title")
	fmt.Fprintln(w, "      --page                Standalone HTML page instead of a fragment")
}

func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathtutor render [file|dir|-]... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Markdown with $...$ and $$...$$ formulas. Bare LaTeX such as")
	fmt.Fprintln(w, "\\frac{1}{2} is wrapped automatically. Without input, reads stdin.")
	fmt.Fprintln(w, "Several files or a directory are rendered in parallel, each to a")
	fmt.Fprintln(w, ".html file next to its source or under --output.")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printOutputFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Streaming:")
	fmt.Fprintln(w, "      --simulate <n>        Feed input in n-byte chunks, as a live answer arrives")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers for batches (0 = auto)")
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  echo 'Tính $\\int_0^1 x^2 dx$' | mathtutor render")
	fmt.Fprintln(w, "  mathtutor render bai1.md --page -o bai1.html")
	fmt.Fprintln(w, "  mathtutor render de-thi/ -o out/ --engine katex")
}

func printChatUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathtutor chat [question] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stream an answer from the Gemini tutor and render it. Without a")
	fmt.Fprintln(w, "question, starts an interactive session (/reset, /exit).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Chat:")
	fmt.Fprintln(w, "  -i, --image <path>        Attach a photo of the exercise")
	fmt.Fprintln(w, "      --raw                 Print Markdown instead of HTML")
	fmt.Fprintln(w, "  -m, --models <list>       Model fallback chain, best first")
	fmt.Fprintln(w, "  -g, --grade <n>           Show suggested questions for grade 10-12")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printOutputFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

func printLessonUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathtutor lesson [topic] --grade <n> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a lesson plan with the four activities of Công văn 5512.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Lesson:")
	fmt.Fprintln(w, "      --topic <s>           Lesson topic (or give it as argument)")
	fmt.Fprintln(w, "  -g, --grade <s>           Grade (required)")
	fmt.Fprintln(w, "      --subject <s>         Subject (default Toán)")
	fmt.Fprintln(w, "      --duration <s>        Duration (default 45 phút)")
	fmt.Fprintln(w, "      --objectives <s>      Expected outcomes to analyse")
	fmt.Fprintln(w, "  -f, --format <s>          html, text, json, pdf (default from --output)")
	fmt.Fprintln(w, "  -m, --models <list>       Model fallback chain, best first")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printOutputFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathtutor key <set|show|clear|path> [keys...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  set <key>...    Store keys; later keys are used when earlier ones hit limits")
	fmt.Fprintln(w, "  show            Show the keys in use, masked")
	fmt.Fprintln(w, "  clear           Remove stored keys")
	fmt.Fprintln(w, "  path            Print the key file location")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without stored keys, GEMINI_API_KEY then API_KEY are read from the")
	fmt.Fprintln(w, "environment or the .env file.")
}

func printTopicsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathtutor topics [--grade <n>]")
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathtutor doctor [--json] [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the config loads, an API key is available and, for the")
	fmt.Fprintln(w, "katex engine and PDF output, that Chrome can be found.")
}

func printGraphUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mathtutor graph [--type linear|quadratic] [-a n] [-b n] [-c n] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Plot the function for x from -10 to 10 in steps of 0.5. A .svg output")
	fmt.Fprintln(w, "gets the bare drawing; otherwise the formula and the drawing are")
	fmt.Fprintln(w, "written as HTML, or printed to PDF for a .pdf output.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Graph:")
	fmt.Fprintln(w, "      --type <s>            linear (y = ax + b) or quadratic (default)")
	fmt.Fprintln(w, "  -a <n>                    Coefficient a (default 1)")
	fmt.Fprintln(w, "  -b <n>                    Coefficient b (default 0)")
	fmt.Fprintln(w, "  -c <n>                    Coefficient c, quadratic only (default 0)")
	fmt.Fprintln(w, "      --points              Print the sampled points as x, y columns")
	fmt.Fprintln(w, "      --width <n>           SVG width (default 600)")
	fmt.Fprintln(w, "      --height <n>          SVG height (default 400)")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printOutputFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "      --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>         Timeout, e.g. 90s or 2m")
	fmt.Fprintln(w, "  -q, --quiet               Only print errors")
	fmt.Fprintln(w, "  -v, --verbose             Print progress")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  mathtutor graph -a 1 -b -2 -c 1 --page -o parabol.html")
	fmt.Fprintln(w, "  mathtutor graph --type linear -a 2 -b 1 -o duong-thang.svg")
	fmt.Fprintln(w, "  mathtutor graph -a -0.5 -c 4 -o do-thi.pdf")
}

// runHelp prints help for a command, or the main usage.
func runHelp(args []string, w io.Writer) error {
	if len(args) == 0 {
		printUsage(w)
		return nil
	}
	switch args[0] {
	case "render":
		printRenderUsage(w)
	case "chat":
		printChatUsage(w)
	case "lesson":
		printLessonUsage(w)
	case "key":
		printKeyUsage(w)
	case "topics":
		printTopicsUsage(w)
	case "doctor":
		printDoctorUsage(w)
	case "graph":
		printGraphUsage(w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
	return nil
}
