package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rusunawa/internal/history"
	"rusunawa/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TaskUpsert  = "upsert"
	TaskReplace = "replace"
)

// reportTaskPayload is persisted in ReportTask.Payload as JSON. Upsert
// tasks carry a single booking; replace tasks carry the full row set.
type reportTaskPayload struct {
	BookingID int64            `json:"booking_id,omitempty"`
	Booking   *models.Booking  `json:"booking,omitempty"`
	Bookings  []models.Booking `json:"bookings,omitempty"`
}

// ReportSink applies report tasks to the management spreadsheet.
type ReportSink interface {
	UpsertBooking(ctx context.Context, booking *models.Booking) error
	ReplaceBookings(ctx context.Context, bookings []models.Booking) error
}

// ReportWorker drains the report queue and mirrors confirmed bookings
// into Sheets. Tasks survive restarts in sqlite; redis carries the hot
// path, the in-memory channel covers a redis outage, and the sqlite poll
// catches whatever both missed.
type ReportWorker struct {
	store         *history.Store
	sink          ReportSink
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.ReportTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	logger        *zerolog.Logger
}

// NewReportWorker builds a worker; unset retry fields fall back to the
// default policy.
func NewReportWorker(store *history.Store, sink ReportSink, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *ReportWorker {
	return &ReportWorker{
		store:         store,
		sink:          sink,
		redis:         redisClient,
		retryPolicy:   retry.withDefaults(),
		queue:         make(chan models.ReportTask, models.WorkerQueueSize),
		redisQueueKey: "reports:queue",
		deadLetterKey: "reports:deadletter",
		pollInterval:  2 * time.Second,
		batchSize:     20,
		logger:        logger,
	}
}

// EnqueueBooking persists an upsert task and schedules it via redis or
// the in-memory queue.
func (w *ReportWorker) EnqueueBooking(ctx context.Context, booking *models.Booking) error {
	if booking == nil || booking.ID == 0 {
		return errors.New("booking id is required")
	}

	payload := reportTaskPayload{BookingID: booking.ID, Booking: booking}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	task := models.ReportTask{
		TaskType:  TaskUpsert,
		BookingID: booking.ID,
		Payload:   string(payloadBytes),
		Status:    "pending",
		CreatedAt: time.Now(),
	}
	return w.enqueueTask(ctx, task)
}

// EnqueueReplace schedules a full rebuild of the report sheet from the
// given rows. Used by the ops resync path.
func (w *ReportWorker) EnqueueReplace(ctx context.Context, bookings []models.Booking) error {
	payloadBytes, err := json.Marshal(reportTaskPayload{Bookings: bookings})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	task := models.ReportTask{
		TaskType:  TaskReplace,
		Payload:   string(payloadBytes),
		Status:    "pending",
		CreatedAt: time.Now(),
	}
	return w.enqueueTask(ctx, task)
}

func (w *ReportWorker) enqueueTask(ctx context.Context, task models.ReportTask) error {
	if err := w.store.CreateReportTask(ctx, &task); err != nil {
		return fmt.Errorf("persist report task: %w", err)
	}

	// Try redis first for durability.
	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("report_worker: redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	// Fallback to in-memory queue if redis missing or failed.
	select {
	case w.queue <- task:
	default:
		w.logger.Warn().Int64("task_id", task.ID).Msg("report_worker: in-memory queue full, task left to polling")
	}

	return nil
}

// Start launches the main loop; stops when ctx is done.
func (w *ReportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("report_worker: started")
	defer w.logger.Info().Msg("report_worker: stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
			continue
		}

		tasks, err := w.store.GetPendingReportTasks(ctx, w.batchSize)
		if err != nil {
			w.logger.Error().Err(err).Msg("report_worker: fetch pending")
			time.Sleep(w.pollInterval)
			continue
		}
		if len(tasks) == 0 {
			time.Sleep(w.pollInterval)
			continue
		}

		for i := range tasks {
			w.processTask(ctx, &tasks[i])
		}
	}
}

func (w *ReportWorker) tryLocalQueue() (models.ReportTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.ReportTask{}, false
	}
}

func (w *ReportWorker) tryRedis(ctx context.Context) (models.ReportTask, bool) {
	if w.redis == nil {
		return models.ReportTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return models.ReportTask{}, false
		}
		w.logger.Error().Err(err).Msg("report_worker: redis BRPOP error")
		return models.ReportTask{}, false
	}
	if len(res) != 2 {
		return models.ReportTask{}, false
	}
	var task models.ReportTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("report_worker: decode redis task")
		return models.ReportTask{}, false
	}
	return task, true
}

func (w *ReportWorker) processTask(ctx context.Context, task *models.ReportTask) {
	var payload reportTaskPayload
	if err := json.Unmarshal([]byte(task.Payload), &payload); err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}

	if err := w.handleTask(ctx, task.TaskType, payload); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.store.UpdateReportTaskStatus(ctx, task.ID, "completed", "", nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("report_worker: mark completed")
	}
}

func (w *ReportWorker) handleTask(ctx context.Context, taskType string, payload reportTaskPayload) error {
	switch taskType {
	case TaskUpsert:
		if payload.Booking == nil {
			return errors.New("booking payload missing")
		}
		return w.sink.UpsertBooking(ctx, payload.Booking)
	case TaskReplace:
		return w.sink.ReplaceBookings(ctx, payload.Bookings)
	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}
}

func (w *ReportWorker) retryOrFail(ctx context.Context, task *models.ReportTask, cause error) {
	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		if err := w.store.UpdateReportTaskStatus(ctx, task.ID, "failed", cause.Error(), nil); err != nil {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("report_worker: mark failed")
		}
		w.pushDeadLetter(ctx, task)
		return
	}

	nextDelay := w.retryPolicy.NextDelay(attempt)
	nextTime := time.Now().Add(nextDelay)
	if err := w.store.UpdateReportTaskStatus(ctx, task.ID, "retry", cause.Error(), &nextTime); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("report_worker: mark retry")
	}
}

func (w *ReportWorker) failTask(ctx context.Context, task *models.ReportTask, cause error) {
	if err := w.store.UpdateReportTaskStatus(ctx, task.ID, "failed", cause.Error(), nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("report_worker: mark failed")
	}
	w.pushDeadLetter(ctx, task)
}

func (w *ReportWorker) pushRedis(ctx context.Context, task models.ReportTask) error {
	if w.redis == nil {
		return errors.New("redis client is nil")
	}
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *ReportWorker) pushDeadLetter(ctx context.Context, task *models.ReportTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("report_worker: encode deadletter")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("report_worker: deadletter push")
	}
}
