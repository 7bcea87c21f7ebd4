package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig lets browser tools on other origins call the query API.
// An origin of "*" admits any origin.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials" mapstructure:"allow_credentials"`
	MaxAge           int      `yaml:"max_age" mapstructure:"max_age"` // seconds; 0 omits the header
}

type corsPolicy struct {
	anyOrigin   bool
	origins     map[string]struct{}
	methods     string
	headers     string
	credentials bool
	maxAge      string
}

func newCORSPolicy(cfg *CORSConfig) *corsPolicy {
	p := &corsPolicy{
		origins:     make(map[string]struct{}, len(cfg.AllowedOrigins)),
		methods:     strings.Join(cfg.AllowedMethods, ", "),
		headers:     strings.Join(cfg.AllowedHeaders, ", "),
		credentials: cfg.AllowCredentials,
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			p.anyOrigin = true
			continue
		}
		p.origins[o] = struct{}{}
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	return p
}

func (p *corsPolicy) allows(origin string) bool {
	if p.anyOrigin {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

// CORS returns middleware that adds CORS headers for admitted origins and
// answers preflight requests without reaching the router. The origin is
// always echoed rather than "*" so credentialed requests stay valid.
func CORS(cfg *CORSConfig) Middleware {
	p := newCORSPolicy(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()
			h.Add("Vary", "Origin")
			if origin == "" || !p.allows(origin) {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Expose-Headers", HeaderRequestID)
			if p.credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if !preflight {
				next.ServeHTTP(w, r)
				return
			}
			if p.methods != "" {
				h.Set("Access-Control-Allow-Methods", p.methods)
			}
			if p.headers != "" {
				h.Set("Access-Control-Allow-Headers", p.headers)
			}
			if p.maxAge != "" {
				h.Set("Access-Control-Max-Age", p.maxAge)
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
