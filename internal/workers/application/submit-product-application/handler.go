// internal/workers/application/submit-product-application/handler.go
package submitproductapplication

import (
	"context"
	"errors"
	"time"

	"product-application-workers/internal/common/database"
	apperrors "product-application-workers/internal/common/errors"
	"product-application-workers/internal/common/logger"
	"product-application-workers/internal/common/metrics"
	"product-application-workers/internal/common/observability"
	"product-application-workers/internal/models"
	"product-application-workers/internal/productapplication"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "submit-product-application"

// Router submits a seller application and returns the result code.
type Router interface {
	SubmitApplicationFor(ctx context.Context, application *models.SellerApplication) (int, error)
}

// SubmissionCache is satisfied by *database.SubmissionCache.
type SubmissionCache interface {
	Get(ctx context.Context, key string) (int, bool, error)
	Set(ctx context.Context, key string, code int) error
}

type Handler struct {
	config       *Config
	router       Router
	cache        SubmissionCache
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler wires the worker. cache and obs may be nil.
func NewHandler(config *Config, router Router, cache SubmissionCache, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		router:       router,
		cache:        cache,
		obs:          obs,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"workflowKey": job.GetProcessInstanceKey(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := ParseInput([]byte(job.GetVariables()))
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	output, err := h.Execute(ctx, JobRef{
		ProcessInstanceKey: job.GetProcessInstanceKey(),
		ElementInstanceKey: job.GetElementInstanceKey(),
	}, input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

// Execute routes the application to underwriting. Errors are *apperrors.StandardError.
func (h *Handler) Execute(ctx context.Context, ref JobRef, input *Input) (*Output, error) {
	application, err := input.ToApplication()
	if err != nil {
		return nil, err
	}

	productType := ""
	if application.Product != nil {
		productType = string(application.Product.Kind())
	}
	companyNumber := 0
	if application.CompanyData != nil {
		companyNumber = application.CompanyData.Number
	}

	cacheKey := database.SubmissionCacheKey(ref.ProcessInstanceKey, ref.ElementInstanceKey)
	if code, ok := h.cachedCode(ctx, cacheKey); ok {
		h.logger.Info("submission already made for this task, reusing result", map[string]interface{}{
			"processInstanceKey": ref.ProcessInstanceKey,
			"resultCode":         code,
		})
		h.recordSubmission(ctx, productType, metrics.OutcomeCached)
		return newOutput(code, productType, companyNumber), nil
	}

	code, err := h.router.SubmitApplicationFor(ctx, application)
	if err != nil {
		var argErr *productapplication.ArgumentError
		if errors.As(err, &argErr) {
			h.recordSubmission(ctx, productType, metrics.OutcomeInvalid)
			return nil, apperrors.NewApplicationValidationFailedError(argErr.Field, argErr.Error())
		}
		h.recordSubmission(ctx, productType, metrics.OutcomeFailed)
		return nil, apperrors.NewUnderwritingSubmissionFailedError(productType, err)
	}

	h.storeCode(ctx, cacheKey, code)

	output := newOutput(code, productType, companyNumber)
	outcome := metrics.OutcomeDeclined
	if output.ApplicationAccepted {
		outcome = metrics.OutcomeAccepted
	}
	h.recordSubmission(ctx, productType, outcome)

	h.logger.Info("application submitted", map[string]interface{}{
		"productType":   productType,
		"companyNumber": companyNumber,
		"resultCode":    code,
		"accepted":      output.ApplicationAccepted,
	})

	return output, nil
}

func newOutput(code int, productType string, companyNumber int) *Output {
	return &Output{
		ApplicationResultCode: code,
		ApplicationAccepted:   code != productapplication.UnsuccessfulApplicationCode,
		ProductType:           productType,
		CompanyNumber:         companyNumber,
	}
}

func (h *Handler) cachedCode(ctx context.Context, key string) (int, bool) {
	if h.cache == nil {
		return 0, false
	}
	code, found, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn("submission cache read failed", map[string]interface{}{"key": key, "error": err})
		return 0, false
	}
	return code, found
}

func (h *Handler) storeCode(ctx context.Context, key string, code int) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, key, code); err != nil {
		h.logger.Warn("submission cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

func (h *Handler) recordSubmission(ctx context.Context, productType, outcome string) {
	metrics.ProductApplicationSubmissions.WithLabelValues(TaskType, productType, outcome).Inc()
	h.obs.RecordSubmission(ctx, productType, outcome)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return
	}

	elapsed := time.Since(start)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, elapsed, "completed")

	h.logger.Info("job completed successfully", map[string]interface{}{"jobKey": job.GetKey()})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	bpmnErr := h.errorHandler.HandleJobError(ctx, client, job, err)

	elapsed := time.Since(start)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, elapsed, "failed")
}
