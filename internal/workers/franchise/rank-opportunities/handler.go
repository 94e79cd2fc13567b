// internal/workers/franchise/rank-opportunities/handler.go
package rankopportunities

import (
	"context"
	"encoding/json"
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
	TaskType = "rank-opportunities"
)

// Store resolves profiles by ID and catalogs by query.
type Store interface {
	catalog.ProfileSource
	catalog.CatalogSource
}

type Handler struct {
	config    *Config
	engine    *matching.Engine
	store     Store
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

// NewHandler wires the worker. store and validator may be nil; without a
// store every job must carry an inline profile and catalog.
func NewHandler(config *Config, engine *matching.Engine, store Store, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		engine:    engine,
		store:     store,
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

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":          job.Key,
		"totalCandidates": output.TotalCandidates,
		"returned":        len(output.Matches),
		"durationMs":      time.Since(start).Milliseconds(),
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
	if h.config.MaxItems > 0 && len(input.Catalog) > h.config.MaxItems {
		return nil, &normalize.ValidationError{Field: "catalog", Reason: "too many opportunities"}
	}

	var (
		profiles catalog.ProfileSource
		catalogs catalog.CatalogSource
	)
	if h.store != nil {
		profiles, catalogs = h.store, h.store
	}

	profile, err := catalog.ResolveProfile(ctx, profiles, input.ProfileID, input.Profile)
	if err != nil {
		return nil, err
	}
	opps, err := catalog.ResolveCatalog(ctx, catalogs, input.Catalog, input.CatalogQuery)
	if err != nil {
		return nil, err
	}

	matches, err := h.engine.RankOpportunities(profile, opps, input.TopN)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(matches))
	for i, m := range matches {
		scores[i] = m.OverallMatchScore
	}
	metrics.ObserveRanking(len(opps), scores)

	return &Output{Matches: matches, TotalCandidates: len(opps)}, nil
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
