package httpx

import "context"

type ctxKey string

const (
	CtxKeyCallerID ctxKey = "caller_id"
)

// WithCallerID stores the authenticated account id on ctx.
func WithCallerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxKeyCallerID, id)
}

// CallerID returns the account id set by RequireCaller, or "".
func CallerID(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyCallerID).(string); ok {
		return v
	}
	return ""
}
