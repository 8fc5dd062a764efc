package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdownRender indicates Markdown could not be rendered to HTML.
var ErrMarkdownRender = errors.New("markdown rendering failed")

// MarkdownRenderer renders Markdown sources to an HTML fragment.
type MarkdownRenderer interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkRenderer renders Markdown with goldmark (GFM tables, strikethrough, autolinks).
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer creates a GoldmarkRenderer.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// Raw HTML in the source is kept: it goes through the same
			// script/style stripping as any other HTML input.
			html.WithUnsafe(),
		),
	)
	return &GoldmarkRenderer{md: md}
}

// ToHTML renders content to an HTML fragment. Goldmark has no context
// support, so rendering runs in a goroutine raced against ctx.
func (r *GoldmarkRenderer) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrMarkdownRender, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}
