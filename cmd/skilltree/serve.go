package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/skilltree-advisor/internal/advisor"
	"github.com/jonathan/skilltree-advisor/internal/cache"
	"github.com/jonathan/skilltree-advisor/internal/server"
	"github.com/jonathan/skilltree-advisor/internal/server/ratelimit"
)

var (
	servePort  int
	serveRedis string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for recommendations, quiz submission and saved quiz results.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveRedis, "redis-url", "", "Redis URL for the shared recommendation cache")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, map[string]string{"port": "port", "redis-url": "redis-url"})
	if err != nil {
		return err
	}
	defer a.Close()

	jwtCfg, err := a.cfg.JWT()
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}
	if jwtCfg == nil {
		a.logger.Warn("JWT secret not set, student routes are unauthenticated")
	}

	c := cache.New(cmd.Context(), cache.Options{
		RedisURL:   a.cfg.RedisURL,
		TTL:        a.cfg.CacheTTL,
		MaxEntries: a.cfg.CacheMaxEntries,
		Logger:     a.logger,
	})
	defer func() {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to close cache", zap.Error(err))
		}
	}()

	service := advisor.NewService(a.store,
		advisor.WithCache(c),
		advisor.WithLogger(a.logger),
	)

	srv := server.New(service, server.Config{
		Port:      a.cfg.Port,
		JWT:       jwtCfg,
		RateLimit: ratelimit.NewConfig(a.cfg.RateLimit),
		Logger:    a.logger,
	})
	defer srv.Close()

	return srv.Start(cmd.Context())
}
