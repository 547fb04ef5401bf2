// internal/workers/application/record-submission-outcome/handler.go
package recordsubmissionoutcome

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"product-application-workers/internal/common/database"
	apperrors "product-application-workers/internal/common/errors"
	"product-application-workers/internal/common/logger"
	"product-application-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "record-submission-outcome"

// Store is satisfied by *database.SubmissionStore.
type Store interface {
	Insert(ctx context.Context, rec *database.SubmissionRecord) error
}

type Handler struct {
	config       *Config
	store        Store
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(config *Config, store Store, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
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

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		h.failJob(ctx, client, job, apperrors.NewInputParsingError(err))
		return
	}

	output, err := h.Execute(ctx, job.GetProcessInstanceKey(), &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

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

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.logger.Info("job completed successfully", map[string]interface{}{"jobKey": job.GetKey()})
}

// Execute stores one outcome row for the process instance.
func (h *Handler) Execute(ctx context.Context, processInstanceKey int64, input *Input) (*Output, error) {
	rec := &database.SubmissionRecord{
		ID:                 uuid.New().String(),
		ProcessInstanceKey: processInstanceKey,
		CompanyNumber:      input.CompanyNumber,
		ProductType:        input.ProductType,
		ResultCode:         input.ApplicationResultCode,
		Accepted:           input.ApplicationAccepted,
		CreatedAt:          h.now(),
	}

	if err := h.store.Insert(ctx, rec); err != nil {
		if errors.Is(err, database.ErrSubmissionExists) {
			return nil, apperrors.NewDuplicateSubmissionError(processInstanceKey)
		}
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	metrics.SubmissionRecordsStored.Inc()
	h.logger.Info("submission outcome recorded", map[string]interface{}{
		"submissionRecordId": rec.ID,
		"processInstanceKey": processInstanceKey,
		"productType":        rec.ProductType,
		"resultCode":         rec.ResultCode,
	})

	return &Output{
		SubmissionRecordID: rec.ID,
		RecordedAt:         rec.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	bpmnErr := h.errorHandler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
}
