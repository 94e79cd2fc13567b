// internal/workers/franchise/calculate-match-score/handler.go
package calculatematchscore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"github.com/akkash/bizsearch-new-sub002/internal/catalog"
	apperrors "github.com/akkash/bizsearch-new-sub002/internal/common/errors"
	"github.com/akkash/bizsearch-new-sub002/internal/common/logger"
	"github.com/akkash/bizsearch-new-sub002/internal/common/metrics"
	"github.com/akkash/bizsearch-new-sub002/internal/common/validation"
	"github.com/akkash/bizsearch-new-sub002/internal/matching"
	"github.com/akkash/bizsearch-new-sub002/internal/normalize"
)

const (
	TaskType = "calculate-match-score"
)

type Handler struct {
	config    *Config
	engine    *matching.Engine
	profiles  catalog.ProfileSource
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

// NewHandler wires the worker. profiles and validator may be nil; without
// profiles every job must carry an inline profile.
func NewHandler(config *Config, engine *matching.Engine, profiles catalog.ProfileSource, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		engine:    engine,
		profiles:  profiles,
		validator: validator,
		errors:    apperrors.NewErrorHandler(l),
		logger:    l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":        job.Key,
		"opportunityId": output.MatchResult.OpportunityID,
		"overallScore":  output.MatchResult.OverallMatchScore,
		"durationMs":    time.Since(start).Milliseconds(),
	})
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if h.validator != nil {
		vars, err := job.GetVariablesAsMap()
		if err != nil {
			return nil, apperrors.NewParseError(err)
		}
		if err := h.validator.Validate(TaskType, vars); err != nil {
			return nil, err
		}
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, apperrors.NewParseError(err)
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	raw, err := catalog.ResolveProfile(ctx, h.profiles, input.ProfileID, input.Profile)
	if err != nil {
		return nil, err
	}

	profile, err := normalize.NormalizeProfile(raw)
	if err != nil {
		return nil, err
	}
	opp, err := normalize.NormalizeOpportunity(input.Opportunity)
	if err != nil {
		var ve *normalize.ValidationError
		if errors.As(err, &ve) {
			return nil, &normalize.ValidationError{Field: "opportunity." + ve.Field, Reason: ve.Reason}
		}
		return nil, err
	}

	result := h.engine.Score(profile, opp)
	metrics.ObserveRanking(1, []float64{result.OverallMatchScore})

	return &Output{MatchResult: result}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	stdErr := h.errors.HandleJobError(context.Background(), client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
}

// Execute runs the scoring without a job, for tests and direct callers.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
