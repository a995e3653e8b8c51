// Package printer writes human-oriented command output: status lines,
// check items and boxed errors. Colour is used only on terminals without
// NO_COLOR set.
package printer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
	"golang.org/x/term"
)

// Tokyo Night palette as 24-bit ANSI sequences.
const (
	ColorReset     = "\033[0m"
	ColorRed       = "\033[38;2;247;118;142m" // #f7768e
	ColorGreen     = "\033[38;2;158;206;106m" // #9ece6a
	ColorYellow    = "\033[38;2;224;175;104m" // #e0af68
	ColorGray      = "\033[38;2;86;95;137m"   // #565f89
	ColorBold      = "\033[1m"
	ColorUnderline = "\033[4m"
)

const (
	Check = "✔"
	Cross = "✘"
	Dot   = "•"
)

type ctxKey struct{}

type Printer struct {
	w     io.Writer
	color bool
}

func New(w io.Writer) *Printer {
	return &Printer{w: w, color: colorEnabled(w)}
}

func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewContext attaches p to ctx.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer attached to ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

// FatalError prints err in a box. criterio.FieldErrors get one line per
// field. The caller decides the exit code.
func (p *Printer) FatalError(err error) {
	if err == nil {
		return
	}

	var fes criterio.FieldErrors
	if !errors.As(err, &fes) {
		p.box("Error", []string{p.paint(ColorGray, err.Error())})
		return
	}

	var body []string
	// Whatever wraps the field errors, e.g. "load config".
	if prefix, _, ok := strings.Cut(err.Error(), fes.Error()); ok && prefix != "" {
		body = append(body, p.paint(ColorGray, strings.TrimSuffix(prefix, ": ")), "")
	}
	for _, fe := range fes {
		line := p.paint(ColorRed, Cross) + " "
		if fe.Field != "" {
			line += p.paint(ColorGray, fe.Field+": ")
		}
		body = append(body, line+fe.Err.Error())
	}
	p.box("Validation Error", body)
}

func (p *Printer) box(title string, body []string) {
	bar := p.paint(ColorRed, "│")
	var sb strings.Builder
	sb.WriteString(p.paint(ColorRed, "╭ "+title) + "\n")
	for _, line := range body {
		if line == "" {
			sb.WriteString(bar + "\n")
			continue
		}
		sb.WriteString(bar + " " + line + "\n")
	}
	sb.WriteString(p.paint(ColorRed, "╵") + "\n")
	p.write(sb.String())
}

func (p *Printer) Errorf(format string, args ...any) {
	p.status(ColorRed, Cross, format, args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.status(ColorGreen, Check, format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.status(ColorGray, Dot, format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.status(ColorYellow, Dot, format, args...)
}

// Printf writes an uncoloured line.
func (p *Printer) Printf(format string, args ...any) {
	p.write(fmt.Sprintf(format, args...) + "\n")
}

// Section writes an underlined heading.
func (p *Printer) Section(title string) {
	p.write(p.paint(ColorBold+ColorUnderline, title) + "\n")
}

// CheckItem, WarnItem and FailItem write indented "symbol label: detail"
// lines used by check listings.
func (p *Printer) CheckItem(label, detail string) { p.item(ColorGreen, Check, label, detail) }
func (p *Printer) WarnItem(label, detail string)  { p.item(ColorYellow, Dot, label, detail) }
func (p *Printer) FailItem(label, detail string)  { p.item(ColorRed, Cross, label, detail) }

func (p *Printer) item(color, symbol, label, detail string) {
	line := "  " + p.paint(color, symbol) + " " + label
	if detail != "" {
		line += ": " + detail
	}
	p.write(line + "\n")
}

func (p *Printer) status(color, symbol, format string, args ...any) {
	p.write(p.paint(color, symbol+" "+fmt.Sprintf(format, args...)) + "\n")
}

func (p *Printer) paint(color, text string) string {
	if !p.color {
		return text
	}
	return color + text + ColorReset
}

func (p *Printer) write(s string) {
	_, _ = io.WriteString(p.w, s)
}
