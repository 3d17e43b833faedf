// Package printer writes styled, human-oriented command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/colonyops/mort/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines to an output and an error writer.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New returns a Printer. Errors go to errOut.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, err: errOut}
}

// NewContext stores p in ctx.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stdout and
// stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout, os.Stderr)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Successf writes a line prefixed with a check mark.
func (p *Printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, styles.StatusInfoStyle.Render("✔")+" "+fmt.Sprintf(format, args...))
}

// Infof writes a line prefixed with a bullet.
func (p *Printer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, styles.WarningStyle.Render("•")+" "+fmt.Sprintf(format, args...))
}

// Errorf writes a line prefixed with a cross to the error writer.
func (p *Printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.err, styles.StatusErrorStyle.Render("✘")+" "+fmt.Sprintf(format, args...))
}

// Section writes a header followed by a divider as wide as the header.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.out, styles.CommandHeaderStyle.Render(title))
	_, _ = fmt.Fprintln(p.out, styles.DividerStyle.Render(strings.Repeat("─", utf8.RuneCountInString(title))))
}
