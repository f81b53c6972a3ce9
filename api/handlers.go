package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/mcq-bench/internal/benchmark"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListBenchmarks(c *gin.Context) {
	names := benchmark.Names()
	out := make([]gin.H, 0, len(names))
	for _, name := range names {
		src, err := benchmark.Resolve(name, 0)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}
		out = append(out, gin.H{
			"name":        src.Name(),
			"description": src.Description(),
			"num_choices": src.NumChoices(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("results store not configured"))
		return
	}

	bench := strings.TrimSpace(c.Query("benchmark"))
	if bench == "" {
		respondError(c, http.StatusBadRequest, errors.New("benchmark is required"))
		return
	}

	limit, err := parseLimitParam(c.Query("limit"), 20)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	entries, err := s.store.Best(c.Request.Context(), bench, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleHistory(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("results store not configured"))
		return
	}

	model := strings.TrimSpace(c.Query("model"))
	bench := strings.TrimSpace(c.Query("benchmark"))
	if model == "" || bench == "" {
		respondError(c, http.StatusBadRequest, errors.New("model and benchmark are required"))
		return
	}

	entries, err := s.store.History(c.Request.Context(), model, bench)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleRecentRuns(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("results store not configured"))
		return
	}

	limit, err := parseLimitParam(c.Query("limit"), 50)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	entries, err := s.store.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseLimitParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid limit")
	}
	if n > 100 {
		n = 100
	}
	return n, nil
}
