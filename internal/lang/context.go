package lang

import "context"

type contextKey struct{}

// ContextWithLanguage returns a context carrying the ambient language code for
// the current unit of work.
func ContextWithLanguage(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, contextKey{}, code)
}

// LanguageFromContext returns the ambient language code, or empty when none
// was set. Callers treat empty as the default language.
func LanguageFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	code, _ := ctx.Value(contextKey{}).(string)
	return code
}
