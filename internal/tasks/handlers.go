package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"github.com/hewitt/pool-pilot/internal/schedule"
	"gorm.io/gorm"
)

type Handler struct {
	db       *gorm.DB
	logger   *slog.Logger
	schedule *schedule.Service
	client   *asynq.Client
}

func NewHandler(db *gorm.DB, logger *slog.Logger, scheduleService *schedule.Service, client *asynq.Client) *Handler {
	return &Handler{
		db:       db,
		logger:   logger,
		schedule: scheduleService,
		client:   client,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeScheduleTick, h.HandleTick)
	mux.HandleFunc(TypeSchedulePrecompute, h.HandlePrecompute)
}

// HandleTick fans out one precompute task per active property for today and
// tomorrow, so the morning's due-sets are served from cache.
func (h *Handler) HandleTick(ctx context.Context, t *asynq.Task) error {
	var properties []models.Property
	if err := h.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&properties).Error; err != nil {
		return fmt.Errorf("listing properties: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	enqueued := 0
	for _, p := range properties {
		for _, date := range []time.Time{today, today.AddDate(0, 0, 1)} {
			task, err := NewPrecomputeTask(p.CompanyID, p.ID, date)
			if err != nil {
				return fmt.Errorf("building precompute task: %w", err)
			}
			if _, err := h.client.EnqueueContext(ctx, task); err != nil {
				h.logger.Error("failed to enqueue precompute",
					"property_id", p.ID, "date", date, "error", err)
				continue
			}
			enqueued++
		}
	}

	h.logger.Info("schedule tick complete",
		"properties", len(properties),
		"enqueued", enqueued,
	)
	return nil
}

// HandlePrecompute compiles one property's due-set. The schedule service
// writes the result into redis, so this is purely a cache warmer.
func (h *Handler) HandlePrecompute(ctx context.Context, t *asynq.Task) error {
	var payload PrecomputePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	date, err := schedule.ParseDate(payload.Date)
	if err != nil {
		return fmt.Errorf("parsing date: %w", err)
	}

	result, err := h.schedule.ComputeForDate(ctx, payload.CompanyID, payload.PropertyID, date)
	if err != nil {
		h.logger.Error("precompute failed",
			"property_id", payload.PropertyID,
			"date", payload.Date,
			"error", err,
		)
		return err
	}

	h.logger.Info("precomputed schedule",
		"property_id", payload.PropertyID,
		"date", payload.Date,
		"tasks", len(result.Tasks),
		"warnings", len(result.Warnings),
	)
	return nil
}
