package pages

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

const defaultWidth = 80

type Renderer struct {
	out   io.Writer
	plain bool
	width int
	term  *glamour.TermRenderer
}

type RendererOption func(*Renderer)

// WithPlain renders without colors, for pipes and tests.
func WithPlain(plain bool) RendererOption {
	return func(r *Renderer) { r.plain = plain }
}

func WithWidth(n int) RendererOption {
	return func(r *Renderer) {
		if n > 0 {
			r.width = n
		}
	}
}

func NewRenderer(out io.Writer, opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{out: out, width: defaultWidth}
	for _, o := range opts {
		o(r)
	}
	style := glamour.WithAutoStyle()
	if r.plain {
		style = glamour.WithStylePath("notty")
	}
	term, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(r.width))
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	r.term = term
	return r, nil
}

// Render writes md to the output.
func (r *Renderer) Render(md string) error {
	s, err := r.term.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(r.out, s)
	return err
}
