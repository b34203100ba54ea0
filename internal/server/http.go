package server

import (
	"loopmod/internal/conf"
	"loopmod/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// NewHTTPServer creates the HTTP server and mounts the API routes.
func NewHTTPServer(
	c *conf.Server,
	moderation *service.ModerationService,
	admin *service.AdminService,
	logger log.Logger,
) *http.Server {
	opts := []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	if c.HTTP.Network != "" {
		opts = append(opts, http.Network(c.HTTP.Network))
	}
	if c.HTTP.Addr != "" {
		opts = append(opts, http.Address(c.HTTP.Addr))
	}
	if t := c.HTTP.Timeout.AsDuration(); t > 0 {
		opts = append(opts, http.Timeout(t))
	}

	srv := http.NewServer(opts...)

	route := srv.Route("/")
	route.GET("/healthz", func(ctx http.Context) error {
		return ctx.Result(200, map[string]string{"status": "ok"})
	})

	moderation.RegisterRoutes(route)
	admin.RegisterRoutes(route)

	return srv
}
