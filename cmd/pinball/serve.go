package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/latticeforge/pinball/internal/api"
	"github.com/latticeforge/pinball/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		poolSize    int64
		rps         float64
		burst       int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP decode service",
		Flags: append(loggingFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "timeout for reading request headers",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "pool-size",
				Usage:       "decoders kept warm per (variant, distance) pair",
				Value:       4,
				Destination: &poolSize,
			},
			&cli.FloatFlag{
				Name:        "rate-limit",
				Usage:       "decode requests per second allowed per remote address",
				Value:       50,
				Destination: &rps,
			},
			&cli.Int64Flag{
				Name:        "rate-burst",
				Usage:       "burst allowance for --rate-limit",
				Value:       20,
				Destination: &burst,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx = withLogger(ctx)
			log := logger.FromContext(ctx)

			provider := api.NewCachedDecoderProvider(int(poolSize))
			service := api.NewDecodeService(provider)
			server := api.NewServer(service)
			limiter := api.NewRateLimiter(rps, int(burst))

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			e.Use(limiter.Middleware())
			server.Register(e)

			log.Info("starting decode service", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
