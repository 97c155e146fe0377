package auth

import "context"

// contextKey is a private type for context keys so values stored here
// cannot collide with keys from other packages.
type contextKey string

const subjectContextKey contextKey = "auth_subject"

// NewContextWithSubject returns a child context carrying the authenticated
// user ID.
func NewContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

// SubjectFromContext extracts the authenticated user ID set by the
// middleware. The boolean reports whether a subject was present.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectContextKey).(string)
	return subject, ok
}
