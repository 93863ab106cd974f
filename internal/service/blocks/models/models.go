package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модели

// CreateBlockRequest запрос на блокировку дня или диапазона дней
type CreateBlockRequest struct {
	ProfessionalID int64
	ActorID        int64
	Kind           string
	Date           *time.Time
	StartDate      *time.Time
	EndDate        *time.Time
	StartTime      *types.TimeString
	EndTime        *types.TimeString
	Reason         string
}

// ToDomainBlock конвертирует запрос в domain модель без статуса
func (r *CreateBlockRequest) ToDomainBlock() *domain.ScheduleBlock {
	return &domain.ScheduleBlock{
		ProfessionalID: r.ProfessionalID,
		Kind:           domain.BlockKind(r.Kind),
		Date:           r.Date,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Reason:         r.Reason,
		CreatedBy:      r.ActorID,
	}
}

// ListBlocksRequest запрос на список блокировок специалиста
type ListBlocksRequest struct {
	ProfessionalID int64
	ActorID        int64
	Status         *string
}

// Response модели

// BlockResponse блокировка расписания
type BlockResponse struct {
	ID              int64     `json:"id"`
	ProfessionalID  int64     `json:"professionalId"`
	Kind            string    `json:"kind"`
	Date            *string   `json:"date,omitempty"`
	StartDate       *string   `json:"startDate,omitempty"`
	EndDate         *string   `json:"endDate,omitempty"`
	StartTime       *string   `json:"startTime,omitempty"`
	EndTime         *string   `json:"endTime,omitempty"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	ApprovedBy      *int64    `json:"approvedBy,omitempty"`
	ApprovedAt      *string   `json:"approvedAt,omitempty"` // ISO 8601
	RejectionReason *string   `json:"rejectionReason,omitempty"`
	CreatedBy       int64     `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BlockListResponse список блокировок
type BlockListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.ScheduleBlock) *BlockResponse {
	if b == nil {
		return nil
	}

	resp := &BlockResponse{
		ID:              b.ID,
		ProfessionalID:  b.ProfessionalID,
		Kind:            string(b.Kind),
		Date:            formatDate(b.Date),
		StartDate:       formatDate(b.StartDate),
		EndDate:         formatDate(b.EndDate),
		StartTime:       formatTime(b.StartTime),
		EndTime:         formatTime(b.EndTime),
		Reason:          b.Reason,
		Status:          string(b.Status),
		ApprovedBy:      b.ApprovedBy,
		RejectionReason: b.RejectionReason,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if b.ApprovedAt != nil {
		approvedAt := b.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}

	return resp
}

// FromDomainBlockList конвертирует список domain моделей в DTO
func FromDomainBlockList(blocks []*domain.ScheduleBlock) *BlockListResponse {
	resp := &BlockListResponse{Blocks: make([]BlockResponse, 0, len(blocks))}
	for _, b := range blocks {
		resp.Blocks = append(resp.Blocks, *FromDomainBlock(b))
	}
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}

func formatTime(ts *types.TimeString) *string {
	if ts == nil {
		return nil
	}
	s := ts.String()
	return &s
}
