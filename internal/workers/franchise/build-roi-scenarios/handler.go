// internal/workers/franchise/build-roi-scenarios/handler.go
package buildroiscenarios

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "github.com/akkash/bizsearch-new-sub002/internal/common/errors"
	"github.com/akkash/bizsearch-new-sub002/internal/common/logger"
	"github.com/akkash/bizsearch-new-sub002/internal/common/metrics"
	"github.com/akkash/bizsearch-new-sub002/internal/common/validation"
	"github.com/akkash/bizsearch-new-sub002/internal/projection"
)

const (
	TaskType = "build-roi-scenarios"
)

type Handler struct {
	config    *Config
	builder   *projection.Builder
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, builder *projection.Builder, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		builder:   builder,
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
		"jobKey":      job.Key,
		"industry":    output.Params.IndustryKey,
		"expectedROI": output.ExpectedFinalYearROI,
		"warnings":    len(output.Warnings),
		"durationMs":  time.Since(start).Milliseconds(),
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

// execute is synchronous; ctx is only checked so an expired job is not
// completed late.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	set, err := h.builder.BuildScenarios(*input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	metrics.ScenarioBuilds.WithLabelValues(set.Params.IndustryKey, set.Params.LocationTier).Inc()
	for _, w := range set.Warnings {
		h.logger.Warn("projection warning", map[string]interface{}{"warning": w})
	}
	return set, nil
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
