package restclient

import "context"

type (
	quietKey  struct{}
	bearerKey struct{}
)

// Quiet marks ctx so that failed requests made with it are not reported to
// the Notifier. Callers that substitute fallback data or raise their own
// notification use it to avoid a second toast.
func Quiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

func isQuiet(ctx context.Context) bool {
	q, _ := ctx.Value(quietKey{}).(bool)
	return q
}

// WithBearer makes requests sent with ctx carry token instead of the client's
// installed one. Logout uses it to revoke a token it has already uninstalled.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func bearerFrom(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(bearerKey{}).(string)
	return t, ok
}
