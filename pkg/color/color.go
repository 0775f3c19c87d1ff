// Package color wraps text in ANSI escape sequences for terminal output.
package color

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const reset = "\033[0m"

// Foreground colors
const (
	FgRed     = 31
	FgGreen   = 32
	FgYellow  = 33
	FgBlue    = 34
	FgMagenta = 35
	FgCyan    = 36
	FgWhite   = 37
)

// Attributes
const (
	Bold      = 1
	Dim       = 2
	Underline = 4
)

// NoColor disables escape sequences globally. It starts out true when the
// NO_COLOR environment variable is set.
var NoColor = os.Getenv("NO_COLOR") != ""

// Color is a set of SGR attributes applied together.
type Color struct {
	params []int
}

func New(attrs ...int) *Color {
	return &Color{params: attrs}
}

func (c *Color) prefix() string {
	if NoColor || len(c.params) == 0 {
		return ""
	}
	parts := make([]string, len(c.params))
	for i, p := range c.params {
		parts[i] = strconv.Itoa(p)
	}
	return "\033[" + strings.Join(parts, ";") + "m"
}

func (c *Color) wrap(s string) string {
	p := c.prefix()
	if p == "" {
		return s
	}
	return p + s + reset
}

// Fprintf writes formatted, colored output to w.
func (c *Color) Fprintf(w io.Writer, format string, a ...any) {
	fmt.Fprint(w, c.wrap(fmt.Sprintf(format, a...)))
}

func (c *Color) Sprint(a ...any) string {
	return c.wrap(fmt.Sprint(a...))
}

func (c *Color) Sprintf(format string, a ...any) string {
	return c.wrap(fmt.Sprintf(format, a...))
}
