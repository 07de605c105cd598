package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
	"github.com/vk/calcnote/internal/notebook"
)

// DefaultWidth is used when the caller does not know the terminal width.
const DefaultWidth = 80

const (
	gutter   = " │ "
	ellipsis = "…"
	minGap   = 2
)

// Options controls Lines.
type Options struct {
	// Width is the total row width. Zero means DefaultWidth.
	Width int
	// Errors prints each error message on a row below its line.
	Errors bool
}

// Row lays out a single line without colors. Results that do not fit are
// truncated before inputs are.
func Row(number int, line notebook.Line, numWidth, width int) (num, input, result string, pad int) {
	num = fmt.Sprintf("%*d", numWidth, number)
	avail := width - numWidth - runewidth.StringWidth(gutter)
	if avail < 1 {
		avail = 1
	}

	input = line.Input
	result = line.Result
	if result != "" {
		maxResult := avail / 2
		if runewidth.StringWidth(result) > maxResult {
			result = runewidth.Truncate(result, maxResult, ellipsis)
		}
	}
	maxInput := avail
	if result != "" {
		maxInput = avail - runewidth.StringWidth(result) - minGap
	}
	if maxInput < 1 {
		maxInput = 1
	}
	if runewidth.StringWidth(input) > maxInput {
		input = runewidth.Truncate(input, maxInput, ellipsis)
	}
	pad = avail - runewidth.StringWidth(input) - runewidth.StringWidth(result)
	if pad < 0 {
		pad = 0
	}
	return num, input, result, pad
}

// NumberWidth is the column width needed for n line numbers.
func NumberWidth(n int) int {
	w := len(fmt.Sprint(n))
	if w < 2 {
		w = 2
	}
	return w
}

// Lines writes every line to w.
func Lines(w io.Writer, lines []notebook.Line, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	numWidth := NumberWidth(len(lines))

	var sb strings.Builder
	for i, line := range lines {
		num, input, result, pad := Row(i+1, line, numWidth, width)
		sb.WriteString(color.Gray.Sprint(num + gutter))
		switch {
		case notebook.IsComment(line.Input):
			sb.WriteString(color.Gray.Sprint(input))
		default:
			sb.WriteString(input)
		}
		if result != "" {
			sb.WriteString(strings.Repeat(" ", pad))
			if line.HasError {
				sb.WriteString(color.Red.Sprint(result))
			} else {
				sb.WriteString(color.Green.Sprint(result))
			}
		}
		sb.WriteByte('\n')

		if opts.Errors && line.HasError && line.ErrorMessage != "" {
			indent := strings.Repeat(" ", numWidth) + gutter
			sb.WriteString(color.Gray.Sprint(indent))
			sb.WriteString(color.Red.Sprint("↳ " + line.ErrorMessage))
			sb.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
