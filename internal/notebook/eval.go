package notebook

import (
	"fmt"
	"strings"

	"github.com/vk/calcnote/internal/mathengine"
	"github.com/vk/calcnote/internal/units"
	"github.com/zclconf/go-cty/cty"
)

// ErrorResult is shown in place of a result when a line fails.
const ErrorResult = "Error"

var commentMarkers = []string{"//", "#"}

var reservedNames = map[string]bool{"true": true, "false": true, "null": true}

// outcome is what evaluating one line produced.
type outcome struct {
	line  Line
	name  string
	value cty.Value
	bound bool
}

// IsComment reports whether s is blank or a comment line.
func IsComment(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	for _, m := range commentMarkers {
		if strings.HasPrefix(s, m) {
			return true
		}
	}
	return false
}

func evaluateInput(ev Evaluator, input string, scope mathengine.Bindings) outcome {
	out := outcome{line: Line{Input: input}}
	s := strings.TrimSpace(input)
	if IsComment(s) {
		return out
	}

	name, expr, isAssign := splitAssignment(s)
	if isAssign {
		if !units.ValidName(name) || reservedNames[name] {
			return failed(out, fmt.Errorf("Invalid variable name %q", name))
		}
	}

	v, err := evaluateExpr(ev, expr, scope)
	if err != nil {
		return failed(out, err)
	}
	out.line.Result = ev.Format(v)
	if isAssign {
		out.name, out.value, out.bound = name, v, true
	}
	return out
}

func evaluateExpr(ev Evaluator, expr string, scope mathengine.Bindings) (cty.Value, error) {
	from, target, ok := splitConversion(expr)
	if !ok {
		return ev.Evaluate(expr, scope)
	}
	v, err := ev.Evaluate(from, scope)
	if err != nil {
		return cty.NilVal, err
	}
	return ev.Convert(v, target)
}

func failed(out outcome, err error) outcome {
	out.line.Result = ErrorResult
	out.line.HasError = true
	out.line.ErrorMessage = err.Error()
	return out
}

// splitAssignment splits "name = expr" on the first "=" that is not part of
// a comparison operator and not inside a string literal.
func splitAssignment(s string) (name, expr string, ok bool) {
	inString := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if inString {
				i++
			}
		case '"':
			inString = !inString
		case '=':
			if inString {
				continue
			}
			if i > 0 && strings.ContainsRune("=!<>", rune(s[i-1])) {
				continue
			}
			if i+1 < len(s) && s[i+1] == '=' {
				i++
				continue
			}
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
		}
	}
	return "", s, false
}

// splitConversion splits "expr to unit" on the last " to ".
func splitConversion(s string) (from, target string, ok bool) {
	idx := strings.LastIndex(s, " to ")
	if idx < 0 {
		return s, "", false
	}
	from, target = strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+len(" to "):])
	if from == "" || target == "" {
		return s, "", false
	}
	return from, target, true
}
