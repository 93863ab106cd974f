package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// BlockKind shape of a block
type BlockKind string

const (
	BlockSingleDay BlockKind = "single_day"
	BlockRange     BlockKind = "range"
)

// BlockStatus approval state of a block
type BlockStatus string

const (
	BlockPending  BlockStatus = "pending"
	BlockApproved BlockStatus = "approved"
	BlockRejected BlockStatus = "rejected"
)

// ScheduleBlock one-off exception removing availability for a day or a range of days
type ScheduleBlock struct {
	ID             int64
	ProfessionalID int64
	Kind           BlockKind
	Date           *time.Time // для single_day
	StartDate      *time.Time // для range
	EndDate        *time.Time // для range, включительно

	// Необязательное окно внутри дня; nil = весь день
	StartTime *types.TimeString
	EndTime   *types.TimeString

	Reason          string
	Status          BlockStatus
	ApprovedBy      *int64
	ApprovedAt      *time.Time
	RejectionReason *string
	CreatedBy       int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlockPolicy which block statuses remove availability
type BlockPolicy struct {
	PendingBlocksReserve bool
}

// Statuses block statuses that remove availability under the policy
func (p BlockPolicy) Statuses() []BlockStatus {
	if p.PendingBlocksReserve {
		return []BlockStatus{BlockApproved, BlockPending}
	}
	return []BlockStatus{BlockApproved}
}

// IsValidBlockStatus checks the status string
func IsValidBlockStatus(s string) bool {
	switch BlockStatus(s) {
	case BlockPending, BlockApproved, BlockRejected:
		return true
	}
	return false
}

// Covers returns true if the block spans the date
func (b *ScheduleBlock) Covers(date time.Time) bool {
	switch b.Kind {
	case BlockSingleDay:
		return b.Date != nil && IsSameDay(*b.Date, date)
	case BlockRange:
		if b.StartDate == nil || b.EndDate == nil {
			return false
		}
		return DateInRange(date, *b.StartDate, b.EndDate)
	default:
		return false
	}
}

// FirstDay and LastDay bound the block in calendar days
func (b *ScheduleBlock) FirstDay() time.Time {
	if b.Kind == BlockSingleDay && b.Date != nil {
		return *b.Date
	}
	if b.StartDate != nil {
		return *b.StartDate
	}
	return time.Time{}
}

func (b *ScheduleBlock) LastDay() time.Time {
	if b.Kind == BlockSingleDay && b.Date != nil {
		return *b.Date
	}
	if b.EndDate != nil {
		return *b.EndDate
	}
	return time.Time{}
}

// IsFullDay returns true if the block removes the whole day
func (b *ScheduleBlock) IsFullDay() bool {
	return b.StartTime == nil || b.EndTime == nil
}

// RemovesAvailability returns true if the block counts under the policy
func (b *ScheduleBlock) RemovesAvailability(policy BlockPolicy) bool {
	switch b.Status {
	case BlockApproved:
		return true
	case BlockPending:
		return policy.PendingBlocksReserve
	default:
		return false
	}
}

// Overlaps returns true if [start, end) intersects the block window on a covered day
func (b *ScheduleBlock) Overlaps(start, end types.TimeString) bool {
	if b.IsFullDay() {
		return true
	}
	return start.IsBefore(*b.EndTime) && end.IsAfter(*b.StartTime)
}

// IsPending returns true while the block awaits a decision
func (b *ScheduleBlock) IsPending() bool {
	return b.Status == BlockPending
}

// Approve moves a pending block to approved
func (b *ScheduleBlock) Approve(approverID int64, at time.Time) error {
	if b.Status != BlockPending {
		return NewTransitionError("block", string(b.Status), string(BlockApproved))
	}
	b.Status = BlockApproved
	b.ApprovedBy = ptr.Ptr(approverID)
	b.ApprovedAt = ptr.Ptr(at)
	return nil
}

// Reject moves a pending block to rejected
func (b *ScheduleBlock) Reject(approverID int64, reason string, at time.Time) error {
	if b.Status != BlockPending {
		return NewTransitionError("block", string(b.Status), string(BlockRejected))
	}
	b.Status = BlockRejected
	b.ApprovedBy = ptr.Ptr(approverID)
	b.ApprovedAt = ptr.Ptr(at)
	b.RejectionReason = ptr.Ptr(reason)
	return nil
}
