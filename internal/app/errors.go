package app

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// quiet maps the normal ways of leaving a prompt to a nil error.
func quiet(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
