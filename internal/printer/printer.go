// Package printer writes styled, human-readable status lines for CLI commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/taskboard/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines to a writer.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stderr)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// Successf writes a line prefixed with a check mark.
func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.SuccessStyle.Render("✔"), format, args...)
}

// Infof writes a line prefixed with an info marker.
func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.InfoStyle.Render("•"), format, args...)
}

// Warnf writes a line prefixed with a warning marker.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.WarningStyle.Render("!"), format, args...)
}

// Errorf writes a line prefixed with a cross.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.ErrorStyle.Render("✘"), format, args...)
}

func (p *Printer) line(prefix, format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
