package logs

import (
	"context"
	"errors"
	"fmt"
)

// WrapSpan annotates err with the span of ctx, so a failure can be found in the log.
func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	span := SpanOf(ctx)
	if span == "" {
		return err
	}
	return errors.Join(err, fmt.Errorf("span: %s", span))
}
