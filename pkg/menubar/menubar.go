// Package menubar builds SwiftBar/xbar menu output.
//
// The host protocol is line oriented: each line is display text optionally
// followed by " | " and a space-separated key=value attribute list, a line of
// exactly "---" separates menu sections, and a "--" prefix nests an entry one
// submenu level down. Modeling lines as a builder keeps the render pipeline
// testable without string concatenation against the separator syntax.
//
// Example usage:
//
//	menu := menubar.New()
//	menu.Add(menubar.Text("TKN 50%").Color("#FFD95C").Size(12))
//	menu.Separator()
//	menu.WriteTo(os.Stdout)
package menubar

import (
	"fmt"
	"io"
	"strings"
)

// attribute is a single key=value pair on a line.
type attribute struct {
	key   string
	value string
}

// Line is one menu entry under construction.
//
// Attribute order is preserved as set, so output is deterministic.
type Line struct {
	text  string
	depth int
	attrs []attribute
}

// Text starts a new line with the given display text.
func Text(text string) *Line {
	return &Line{text: text}
}

// Textf starts a new line with formatted display text.
func Textf(format string, args ...interface{}) *Line {
	return &Line{text: fmt.Sprintf(format, args...)}
}

// Color sets the display color (hex or named).
func (l *Line) Color(c string) *Line {
	return l.attr("color", c)
}

// Font sets the font family.
func (l *Line) Font(f string) *Line {
	return l.attr("font", f)
}

// Size sets the font size in points.
func (l *Line) Size(s int) *Line {
	return l.attr("size", fmt.Sprintf("%d", s))
}

// Offset shifts the line vertically by the given pixels.
func (l *Line) Offset(o int) *Line {
	return l.attr("offset", fmt.Sprintf("%d", o))
}

// Bash binds a command to the line, with positional parameters expanded to
// param1..paramN attributes.
func (l *Line) Bash(command string, params ...string) *Line {
	l.attr("bash", command)
	for i, p := range params {
		l.attr(fmt.Sprintf("param%d", i+1), p)
	}
	return l
}

// Terminal controls whether the bound command opens a terminal window.
func (l *Line) Terminal(open bool) *Line {
	return l.attr("terminal", fmt.Sprintf("%t", open))
}

// Refresh makes activating the line re-invoke the plugin.
func (l *Line) Refresh() *Line {
	return l.attr("refresh", "true")
}

// Submenu nests the line one level deeper in the dropdown.
func (l *Line) Submenu() *Line {
	l.depth++
	return l
}

// attr appends a key=value pair.
func (l *Line) attr(key, value string) *Line {
	l.attrs = append(l.attrs, attribute{key: key, value: value})
	return l
}

// String serializes the line in host markup form.
func (l *Line) String() string {
	var b strings.Builder
	for i := 0; i < l.depth; i++ {
		b.WriteString("--")
	}
	b.WriteString(l.text)

	if len(l.attrs) > 0 {
		b.WriteString(" |")
		for _, a := range l.attrs {
			b.WriteByte(' ')
			b.WriteString(a.key)
			b.WriteByte('=')
			b.WriteString(quote(a.value))
		}
	}

	return b.String()
}

// quote wraps values containing whitespace in double quotes, as the host
// splits attributes on spaces.
func quote(v string) string {
	if strings.ContainsAny(v, " \t") {
		return `"` + v + `"`
	}
	return v
}

// entry is one menu row: either a separator or a line.
type entry struct {
	separator bool
	line      *Line
}

// Menu accumulates lines and serializes them to a writer.
type Menu struct {
	entries []entry
}

// New creates an empty menu.
func New() *Menu {
	return &Menu{}
}

// Add appends a line to the menu.
func (m *Menu) Add(l *Line) *Menu {
	m.entries = append(m.entries, entry{line: l})
	return m
}

// Separator appends a section separator.
func (m *Menu) Separator() *Menu {
	m.entries = append(m.entries, entry{separator: true})
	return m
}

// Len returns the number of rows, separators included.
func (m *Menu) Len() int {
	return len(m.entries)
}

// WriteTo serializes the menu in host markup form.
func (m *Menu) WriteTo(w io.Writer) error {
	for _, e := range m.entries {
		var err error
		if e.separator {
			_, err = fmt.Fprintln(w, "---")
		} else {
			_, err = fmt.Fprintln(w, e.line.String())
		}
		if err != nil {
			return fmt.Errorf("failed to write menu: %w", err)
		}
	}
	return nil
}

// WritePlain serializes the menu as attribute-free text for terminals.
//
// Submenu entries are indented two spaces per level; separators become a
// short dashed rule. Used by the preview command.
func (m *Menu) WritePlain(w io.Writer) error {
	for _, e := range m.entries {
		var err error
		if e.separator {
			_, err = fmt.Fprintln(w, strings.Repeat("-", 32))
		} else {
			indent := strings.Repeat("  ", e.line.depth)
			_, err = fmt.Fprintln(w, indent+e.line.text)
		}
		if err != nil {
			return fmt.Errorf("failed to write menu: %w", err)
		}
	}
	return nil
}
