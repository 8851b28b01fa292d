package app

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/shipline/shipline/internal/shared"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger        *slog.Logger
	Config        *Config
	IdentityStore *shared.IdentityStore
}

// MiddlewareStack installs the Shipline middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        cfg.Config != nil && cfg.Config.IsProduction(),
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})

	// The auth frontend owns login; this backend only resolves the session
	// token. Mobile API clients without a session send identity headers.
	identityMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			identity, err := cfg.IdentityStore.Load(ctx, sessionToken(r))
			if err != nil {
				if !errors.Is(err, shared.ErrSessionNotFound) {
					cfg.Logger.Warn("session lookup failed", slog.Any("error", err))
				}
				identity = shared.Identity{
					Username:  r.Header.Get("X-Username"),
					AccountNo: r.Header.Get("X-Acc-No"),
				}
			}

			next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(ctx, identity)))
		})
	}

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}

	return []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		identityMiddleware,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(60, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
	}
}

func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie("shipline_session"); err == nil {
		return cookie.Value
	}
	return r.Header.Get("X-Session-Token")
}
