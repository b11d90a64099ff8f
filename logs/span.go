package logs

import "context"

// Span identifies one unit of work, usually the analysis of one file.
type Span string

type spanKey struct{}

var SpanKey = spanKey{}

func SpanOf(ctx context.Context) Span {
	if v := ctx.Value(SpanKey); v != nil {
		return v.(Span)
	}
	return ""
}
