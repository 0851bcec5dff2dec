package browser

import (
	"context"
	"fmt"
	"io"
)

// Sharer receives a formatted movie summary
type Sharer interface {
	Share(ctx context.Context, subject, text string) error
}

// SharerFunc adapts a function to a Sharer
type SharerFunc func(ctx context.Context, subject, text string) error

// Share calls f
func (f SharerFunc) Share(ctx context.Context, subject, text string) error {
	return f(ctx, subject, text)
}

// WriterSharer prints shared text to a writer
type WriterSharer struct {
	W io.Writer
}

// Share writes the subject line, a blank line and the text
func (s WriterSharer) Share(_ context.Context, subject, text string) error {
	_, err := fmt.Fprintf(s.W, "%s\n\n%s\n", subject, text)
	return err
}
