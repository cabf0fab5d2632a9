package errors

import (
	"encoding/json"
	"strings"
)

// ANSI escape sequences used by Format.
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
)

var useColor = true

// SetColor turns ANSI styling in Format on or off. The CLI disables it when
// NO_COLOR is set.
func SetColor(enabled bool) {
	useColor = enabled
}

func paint(style, s string) string {
	if !useColor || s == "" {
		return s
	}
	return style + s + ansiReset
}

// Format renders the error for a terminal: a header with the code, then
// the location, detail, hint, example and documentation link when present.
func (e *VangoError) Format() string {
	var b strings.Builder

	header := "ERROR"
	if e.Code != "" {
		header += " " + e.Code
	}
	b.WriteString("\n" + paint(ansiRed+ansiBold, header+":") + " " + paint(ansiBold, e.Message) + "\n")

	if e.Location != nil {
		loc := e.Location.String()
		if e.Location.Function != "" {
			loc += paint(ansiGray, " in "+e.Location.Function)
		}
		section(&b, "", []string{loc})
	}
	if e.Wrapped != nil {
		section(&b, "Cause:", []string{e.Wrapped.Error()})
	}
	section(&b, "", wrapText(e.Detail, 70))
	if e.Suggestion != "" {
		section(&b, "Hint:", []string{e.Suggestion})
	}
	if e.Example != "" {
		section(&b, "Example:", indent(strings.Split(e.Example, "\n")))
	}
	if e.DocURL != "" {
		section(&b, "Learn more:", []string{e.DocURL})
	}
	return b.String()
}

// section writes a blank line followed by lines indented under an optional
// label. Hint-style single lines share the label's line.
func section(b *strings.Builder, label string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString("\n")
	if label != "" {
		b.WriteString("  " + paint(ansiCyan, label))
		if len(lines) == 1 && !strings.HasPrefix(lines[0], "  ") {
			b.WriteString(" " + lines[0] + "\n")
			return
		}
		b.WriteString("\n")
	}
	for _, l := range lines {
		b.WriteString("  " + l + "\n")
	}
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "  " + l
	}
	return out
}

// FormatJSON returns the error as a single-line JSON object for machine
// consumers such as `vango-selector bench --json`.
func (e *VangoError) FormatJSON() string {
	type location struct {
		File string `json:"file"`
		Line int    `json:"line"`
	}
	out := struct {
		Code       string    `json:"code,omitempty"`
		Category   Category  `json:"category"`
		Message    string    `json:"message"`
		Detail     string    `json:"detail,omitempty"`
		Cause      string    `json:"cause,omitempty"`
		Location   *location `json:"location,omitempty"`
		Suggestion string    `json:"suggestion,omitempty"`
		DocURL     string    `json:"docUrl,omitempty"`
	}{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	if e.Location != nil {
		out.Location = &location{File: e.Location.File, Line: e.Location.Line}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return `{"message":"unencodable error"}`
	}
	return string(data)
}

// wrapText breaks text into lines of at most width bytes, splitting on
// whitespace. A single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
