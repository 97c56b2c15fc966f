package http

import (
	"time"

	"github.com/ilya24037/www.spa.com-sub004/internal/timeblock"
)

type CreateBlockRequest struct {
	ProviderID   string    `json:"provider_id" binding:"omitempty,uuid"`
	Kind         string    `json:"kind" binding:"required,oneof=break preparation blocked"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	ResourceType string    `json:"resource_type" binding:"omitempty,oneof=room equipment"`
	ResourceID   string    `json:"resource_id" binding:"omitempty,uuid"`
	Notes        *string   `json:"notes" binding:"omitempty,max=500"`
}

// Validate performs custom validation for CreateBlockRequest.
func (r *CreateBlockRequest) Validate() error {
	if !r.StartTime.Before(r.EndTime) {
		return timeblock.ErrInvalidInterval.WithMessage("start time must be before end time")
	}
	if _, err := timeblock.ParseResource(r.ResourceType, r.ResourceID); err != nil {
		return timeblock.ErrInvalidKind.WithMessage(err.Error())
	}
	return nil
}

// MinutesRequest carries an Extend or Shorten step.
type MinutesRequest struct {
	Minutes int `json:"minutes" binding:"required,min=1,max=1440"`
}

// MoveRequest carries a signed Move step.
type MoveRequest struct {
	Minutes int `json:"minutes" binding:"required,min=-1440,max=1440"`
}

type SplitRequest struct {
	At time.Time `json:"at" binding:"required"`
}

type BlockRequest struct {
	Reason *string `json:"reason" binding:"omitempty,max=500"`
}

type ListBlocksQuery struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

type ResourceTag struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type BlockResponse struct {
	ID              string       `json:"id"`
	ProviderID      string       `json:"provider_id"`
	BookingID       *string      `json:"booking_id"`
	Resource        *ResourceTag `json:"resource"`
	StartTime       time.Time    `json:"start_time"`
	EndTime         time.Time    `json:"end_time"`
	DurationMinutes int          `json:"duration_minutes"`
	Kind            string       `json:"kind"`
	Notes           *string      `json:"notes"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func NewBlockResponse(b *timeblock.Block) BlockResponse {
	resp := BlockResponse{
		ID:              b.ID,
		ProviderID:      b.ProviderID,
		BookingID:       b.BookingID,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationMinutes: b.DurationMinutes,
		Kind:            string(b.Kind),
		Notes:           b.Notes,
		UpdatedAt:       b.UpdatedAt,
	}
	switch r := b.Resource.(type) {
	case timeblock.Room:
		resp.Resource = &ResourceTag{Type: string(timeblock.ResourceRoom), ID: r.ID}
	case timeblock.Equipment:
		resp.Resource = &ResourceTag{Type: string(timeblock.ResourceEquipment), ID: r.ID}
	}
	return resp
}

func NewBlockListResponse(blocks []*timeblock.Block) []BlockResponse {
	items := make([]BlockResponse, len(blocks))
	for i, b := range blocks {
		items[i] = NewBlockResponse(b)
	}
	return items
}
