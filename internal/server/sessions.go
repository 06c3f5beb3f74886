package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/yukikurage/farm-management-api/internal/config"
)

// NewSessionStore builds the session backend selected by cfg.Session.Store.
// The redis store keeps sessions server side; the cookie store is meant for
// local development and tests.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var (
		store sessions.Store
		err   error
	)
	switch cfg.Session.Store {
	case "", "redis":
		store, err = redisStore.NewStore(
			10, // pool size
			"tcp",
			cfg.Redis.Addr(),
			"",
			cfg.Redis.Password,
			[]byte(cfg.Session.Secret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis session store: %w", err)
		}
	case "cookie":
		store = cookie.NewStore([]byte(cfg.Session.Secret))
	default:
		return nil, fmt.Errorf("unsupported session store: %q", cfg.Session.Store)
	}

	store.Options(sessionOptions(cfg))
	return store, nil
}

func sessionOptions(cfg *config.Config) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Server.GinMode == "release", // HTTPS only in production
		SameSite: http.SameSiteLaxMode,
	}
}
