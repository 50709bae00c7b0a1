package core

import "context"

// suppressHeaderKey is the context key for silencing the analysis header.
type suppressHeaderKey struct{}

// WithSuppressHeader returns a context that silences the analysis header,
// used by embedders like the MCP server that want clean machine output.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey{}, true)
}

// shouldSuppressHeader reports whether the header is silenced.
func shouldSuppressHeader(ctx context.Context) bool {
	v, _ := ctx.Value(suppressHeaderKey{}).(bool)
	return v
}
