// Package imagegen is the boundary to the external image oracle: a text
// prompt goes in, a stored image reference comes out. The core keeps only
// the reference; failures leave the day deliverable without an image.
package imagegen

import "context"

// Oracle generates an image for a prompt and returns a reference (URL)
// to the stored result.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (ref string, err error)
}
