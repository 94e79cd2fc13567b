package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/akkash/bizsearch-new-sub002/internal/common/errors"
	buildroiscenarios "github.com/akkash/bizsearch-new-sub002/internal/workers/franchise/build-roi-scenarios"
	rankopportunities "github.com/akkash/bizsearch-new-sub002/internal/workers/franchise/rank-opportunities"
)

type errorBody struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Field   string              `json:"field,omitempty"`
}

func (s *Server) rankMatches(c *gin.Context) {
	var input rankopportunities.Input
	if err := s.bind(c, rankopportunities.TaskType, &input); err != nil {
		s.fail(c, err)
		return
	}

	done := s.deps.Observability.Track(c.Request.Context(), "rank", "http")
	output, err := s.deps.Ranker.Execute(c.Request.Context(), &input)
	done(err)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (s *Server) buildScenarios(c *gin.Context) {
	var input buildroiscenarios.Input
	if err := s.bind(c, buildroiscenarios.TaskType, &input); err != nil {
		s.fail(c, err)
		return
	}

	done := s.deps.Observability.Track(c.Request.Context(), "scenarios", "http")
	output, err := s.deps.Projector.Execute(c.Request.Context(), &input)
	done(err)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (s *Server) benchmarks(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Benchmarks)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ready pings every configured dependency.
func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	checks := make(map[string]string, len(s.deps.Checks))
	healthy := true
	for name, p := range s.deps.Checks {
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}

// bind reads the body, checks it against the task's registry schema when a
// validator is configured, and decodes it into dst.
func (s *Server) bind(c *gin.Context, taskType string, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return apperrors.NewParseError(err)
	}

	if s.deps.Validator != nil && s.deps.Validator.Has(taskType) {
		var doc interface{}
		if err := json.Unmarshal(body, &doc); err != nil {
			return apperrors.NewParseError(err)
		}
		if err := s.deps.Validator.Validate(taskType, doc); err != nil {
			return err
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewParseError(err)
	}
	return nil
}

func (s *Server) fail(c *gin.Context, err error) {
	stdErr := apperrors.FromEngineError(err)
	_ = c.Error(err)

	message := stdErr.Message
	if stdErr.Code != apperrors.ErrCodeInternal && stdErr.Details != "" {
		message = stdErr.Details
	}
	c.AbortWithStatusJSON(apperrors.HTTPStatus(stdErr.Code), gin.H{
		"error": errorBody{Code: stdErr.Code, Message: message, Field: stdErr.Field},
	})
}
