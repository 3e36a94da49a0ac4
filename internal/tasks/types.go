package tasks

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeScheduleTick       = "schedule:tick"
	TypeSchedulePrecompute = "schedule:precompute"
)

// PrecomputePayload asks the worker to compile and cache one property's
// due-set for one service day.
type PrecomputePayload struct {
	CompanyID  uuid.UUID `json:"company_id"`
	PropertyID uuid.UUID `json:"property_id"`
	Date       string    `json:"date"` // YYYY-MM-DD
}

func NewPrecomputeTask(companyID, propertyID uuid.UUID, date time.Time) (*asynq.Task, error) {
	payload := PrecomputePayload{
		CompanyID:  companyID,
		PropertyID: propertyID,
		Date:       date.UTC().Format("2006-01-02"),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSchedulePrecompute, data), nil
}

// TickPayload is empty - the tick fans out over all active properties.
type TickPayload struct{}

func NewTickTask() *asynq.Task {
	return asynq.NewTask(TypeScheduleTick, nil)
}
