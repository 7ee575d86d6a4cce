package lang

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDefaultLanguageRequired indicates the resolver was built without a default code.
	ErrDefaultLanguageRequired = errors.New("lang: default language code is required")
	// ErrFallbackTableInvalid indicates a malformed fallback table entry.
	ErrFallbackTableInvalid = errors.New("lang: fallback table entries must be non-empty lists of codes")
)

// Resolver owns the static language configuration: the alias table mapping raw
// short codes to canonical codes, the per-code fallback lists, and the default
// code that terminates every fallback chain. It is shared by the record engine,
// the query set, and the save manager as a single policy object.
type Resolver struct {
	defaultCode string
	aliases     map[string]string
	fallbacks   map[string][]string
}

// NewResolver validates the configuration and returns a resolver. The fallback
// table must map codes to non-empty lists of non-blank codes; anything else is
// a configuration error and aborts initialization.
func NewResolver(defaultCode string, aliases map[string]string, fallbacks map[string][]string) (*Resolver, error) {
	defaultCode = canonicalForm(defaultCode)
	if defaultCode == "" {
		return nil, ErrDefaultLanguageRequired
	}

	normalizedAliases := make(map[string]string, len(aliases))
	for raw, canonical := range aliases {
		raw = canonicalForm(raw)
		canonical = canonicalForm(canonical)
		if raw == "" || canonical == "" {
			return nil, fmt.Errorf("lang: alias %q -> %q contains a blank code", raw, canonical)
		}
		normalizedAliases[raw] = canonical
	}

	normalizedFallbacks := make(map[string][]string, len(fallbacks))
	for code, chain := range fallbacks {
		code = canonicalForm(code)
		if code == "" || len(chain) == 0 {
			return nil, ErrFallbackTableInvalid
		}
		normalized := make([]string, 0, len(chain))
		for _, fb := range chain {
			fb = canonicalForm(fb)
			if fb == "" {
				return nil, ErrFallbackTableInvalid
			}
			normalized = append(normalized, fb)
		}
		normalizedFallbacks[code] = normalized
	}

	return &Resolver{
		defaultCode: defaultCode,
		aliases:     normalizedAliases,
		fallbacks:   normalizedFallbacks,
	}, nil
}

// DefaultCode returns the default language code.
func (r *Resolver) DefaultCode() string {
	return r.defaultCode
}

// Normalize maps a raw code through the alias table. Unknown codes pass
// through unchanged and are treated as already canonical. Separators are
// folded to underscores so "fr-CA" and "fr_ca" resolve identically.
func (r *Resolver) Normalize(code string) string {
	code = canonicalForm(code)
	if code == "" {
		return r.defaultCode
	}
	if canonical, ok := r.aliases[code]; ok {
		return canonical
	}
	return code
}

// FallbackChain returns the ordered list of canonical codes tried when
// resolving a translation; the first match wins. The chain starts with the
// normalized code. When fallback is false the chain is that single code.
// Otherwise the configured fallback list follows, then the default code if
// not already present.
func (r *Resolver) FallbackChain(code string, fallback bool) []string {
	canonical := r.Normalize(code)
	chain := []string{canonical}

	if !fallback {
		return chain
	}

	chain = append(chain, r.fallbacks[canonical]...)

	for _, c := range chain {
		if c == r.defaultCode {
			return chain
		}
	}
	return append(chain, r.defaultCode)
}

// IsDefault reports whether the code resolves to the default language.
// An empty code counts as default.
func (r *Resolver) IsDefault(code string) bool {
	return r.Normalize(code) == r.defaultCode
}

// IsCanonical reports whether the code is in the alias table's range or is
// the default code. Override headers only take effect for canonical codes.
func (r *Resolver) IsCanonical(code string) bool {
	code = canonicalForm(code)
	if code == "" {
		return false
	}
	if code == r.defaultCode {
		return true
	}
	for _, canonical := range r.aliases {
		if code == canonical {
			return true
		}
	}
	return false
}

func canonicalForm(code string) string {
	code = strings.TrimSpace(strings.ToLower(code))
	return strings.ReplaceAll(code, "-", "_")
}
