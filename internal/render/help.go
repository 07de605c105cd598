package render

import (
	"strings"

	"github.com/gookit/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/vk/calcnote/internal/mathengine"
)

// Topic is one section of the help panel.
type Topic struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Examples []string `json:"examples,omitempty"`
}

// Topics returns the help panel content.
func Topics() []Topic {
	return []Topic{
		{
			Title:    "Basics",
			Body:     "Each line is evaluated as you type and the result appears on the right. Use + - * / and ^ for powers. Parentheses group as usual.",
			Examples: []string{"2 + 3 * 4", "(2 + 3) ^ 2"},
		},
		{
			Title:    "Variables",
			Body:     "Assign with name = expression. Names start with a letter or underscore. Later lines see earlier variables and update when they change.",
			Examples: []string{"rent = 1200", "rent * 12"},
		},
		{
			Title:    "Units",
			Body:     "Write a unit after a number. Length, mass, time, temperature, data, speed and more are built in, with metric prefixes.",
			Examples: []string{"5 km + 300 m", "100 KB * 500"},
		},
		{
			Title:    "Conversions",
			Body:     "Append \"to <unit>\" to convert a result. Conversions work on assignments too.",
			Examples: []string{"72 degF to degC", "speed = 10 m/s to km/h"},
		},
		{
			Title:    "Functions",
			Body:     "Available functions: " + strings.Join(mathengine.FunctionNames(), ", ") + ". Constants: pi, e, tau, phi.",
			Examples: []string{"sqrt(16)", "round(pi, 2)"},
		},
		{
			Title:    "Currency",
			Body:     "Exchange rates are downloaded in the background. Once loaded, three-letter currency codes work like any other unit.",
			Examples: []string{"20 EUR to USD"},
		},
		{
			Title: "Comments",
			Body:  "Lines starting with // or # are notes and are never evaluated.",
		},
		{
			Title: "Keys",
			Body:  "Enter adds a line below. Backspace on an empty line deletes it. Up and Down move between lines. F1 toggles this help. Ctrl+C quits.",
		},
	}
}

// Help renders the topics as wrapped text no wider than width.
func Help(width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var sb strings.Builder
	for i, t := range Topics() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(color.Bold.Sprint(t.Title))
		sb.WriteByte('\n')
		sb.WriteString(wordwrap.WrapString(t.Body, uint(width)))
		sb.WriteByte('\n')
		for _, ex := range t.Examples {
			sb.WriteString(color.Cyan.Sprint("  " + ex))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
