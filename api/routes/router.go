package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/userhubapp/userhub-backend/api/controllers"
	"github.com/userhubapp/userhub-backend/api/middleware"
	"github.com/userhubapp/userhub-backend/internal/auth"
	"github.com/userhubapp/userhub-backend/internal/users"
	"github.com/userhubapp/userhub-backend/pkg/auth/session"
	"github.com/userhubapp/userhub-backend/pkg/config"
	"github.com/userhubapp/userhub-backend/pkg/enums"
	"github.com/userhubapp/userhub-backend/pkg/logger"
	"github.com/userhubapp/userhub-backend/pkg/metrics"
	"github.com/userhubapp/userhub-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Optional members may be
// nil; the affected routes then degrade instead of panicking.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              controllers.Pinger
	Redis           *redis.Client
	RateStore       middleware.RateLimiterStore
	Sessions        session.Checker
	AuthService     auth.Service
	RegisterService auth.RegisterService
	UsersService    users.Service
	Metrics         *metrics.HTTPMetrics
	PromGatherer    prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive(cfg))
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    redisPinger(deps.Redis),
		}))
	})

	if deps.PromGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateStore, logg)).
			Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateStore, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/profile", controllers.ProfileGet(deps.UsersService, logg))
		r.Put("/profile", controllers.ProfileUpdate(deps.UsersService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))

			r.Get("/", controllers.UsersList(deps.UsersService, logg))
			r.Get("/{id}", controllers.UserGet(deps.UsersService, logg))
			r.Delete("/{id}", controllers.UserDelete(deps.UsersService, logg))
			r.Patch("/{id}/role", controllers.UserUpdateRole(deps.UsersService, logg))
		})
	})

	return r
}

// redisPinger avoids handing a typed nil pointer to the readiness check.
func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
