package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-translations/internal/lang"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// DefaultLanguageHeader is the override header consulted when none is
// configured.
const DefaultLanguageHeader = "X-Translation-Language"

// LanguageMiddleware returns middleware that reads the override header and,
// when its value exactly matches a canonical code known to the resolver,
// stores it as the ambient language on the request context. Non-matching or
// absent headers leave the request untouched. Host applications register the
// middleware on their own mux/router.
func LanguageMiddleware(langs *lang.Resolver, header string, logger interfaces.Logger) func(http.Handler) http.Handler {
	if strings.TrimSpace(header) == "" {
		header = DefaultLanguageHeader
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.Header.Get(header)
			if code != "" && langs.IsCanonical(code) {
				logger.Debug("ambient language activated", "language", code)
				r = r.WithContext(lang.ContextWithLanguage(r.Context(), code))
			}
			next.ServeHTTP(w, r)
		})
	}
}
