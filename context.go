package authcore

import "context"

type contextKey uint8

const (
	clientIPKey contextKey = iota
)

// WithClientIP describes the withclientip operation and its observable behavior.
//
// Callers attach the remote client address before invoking [Engine.SignIn] so
// that the optional per-IP throttle has something to key on. Sign-in works
// without it; only the IP dimension of the limiter is skipped.
func WithClientIP(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIPKey, ip)
}

func clientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}
