package api

import (
	"errors"
	"os"
	"strings"
)

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	s.router.GET("/metrics", metricsHandler())

	api := s.router.Group("/api")
	apiKey := strings.TrimSpace(os.Getenv("MCQ_BENCH_API_KEY"))
	if apiKey != "" {
		api.Use(apiKeyAuthMiddleware(apiKey))
	} else if strings.EqualFold(strings.TrimSpace(os.Getenv("MCQ_BENCH_DISABLE_AUTH")), "true") {
		// Explicitly allow unauthenticated access.
	} else {
		return errors.New("api: missing auth configuration: set MCQ_BENCH_API_KEY or set MCQ_BENCH_DISABLE_AUTH=true")
	}

	api.GET("/health", s.handleHealth)
	api.GET("/benchmarks", s.handleListBenchmarks)
	api.GET("/leaderboard", s.handleLeaderboard)
	api.GET("/history", s.handleHistory)
	api.GET("/runs", s.handleRecentRuns)

	return nil
}
