// Package api serves benchmark results over HTTP: per-benchmark leaderboards,
// model score history, and Prometheus metrics.
package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/mcq-bench/internal/results"
)

type Server struct {
	router *gin.Engine
	store  *results.Store
}

func NewServer(store *results.Store) (*Server, error) {
	if store == nil {
		return nil, errors.New("api: nil results store")
	}

	r := gin.New()
	s := &Server{router: r, store: store}
	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}
