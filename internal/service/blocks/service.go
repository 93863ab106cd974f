package blocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	blockRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/block"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	"github.com/m04kA/SMC-SchedulingService/internal/service/blocks/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// Service сервис блокировок расписания и их согласования
type Service struct {
	blockRepo    BlockRepository
	actors       ActorResolver
	audit        AuditRecorder
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(
	blockRepo BlockRepository,
	actors ActorResolver,
	audit AuditRecorder,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		blockRepo:    blockRepo,
		actors:       actors,
		audit:        audit,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// CreateBlock создает блокировку.
// Блокировка специалиста ждет согласования (pending), блокировка администратора сразу approved
func (s *Service) CreateBlock(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("CreateBlock: professional=%d, kind=%s by user=%d", req.ProfessionalID, req.Kind, req.ActorID)

	// 1. Валидация
	block := req.ToDomainBlock()
	if err := validateBlock(block); err != nil {
		s.logger.Warn("CreateBlock: validation failed: %v", err)
		return nil, err
	}

	// 2. Статус зависит от роли
	actor, err := s.resolve(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.IsAdmin():
		block.Status = domain.BlockApproved
		block.ApprovedBy = ptr.Ptr(actor.ID)
		block.ApprovedAt = ptr.Ptr(s.timeProvider.Now())
	case actor.Is(req.ProfessionalID):
		block.Status = domain.BlockPending
	default:
		s.logger.Warn("CreateBlock: user=%d cannot block schedule of professional=%d", req.ActorID, req.ProfessionalID)
		return nil, ErrAccessDenied
	}

	// 3. Сохранение
	created, err := s.blockRepo.Create(ctx, block)
	if err != nil {
		s.logger.Error("CreateBlock: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlock - repository error: %v", ErrInternal, err)
	}

	s.record(ctx, actor.ID, events.ActionBlockCreated, created, string(created.Status))

	s.logger.Info("CreateBlock: created block id=%d, status=%s", created.ID, created.Status)
	return models.FromDomainBlock(created), nil
}

// ApproveBlock согласует блокировку. Только администратор, только из pending
func (s *Service) ApproveBlock(ctx context.Context, blockID, approverID int64) (*models.BlockResponse, error) {
	s.logger.Info("ApproveBlock: block=%d by user=%d", blockID, approverID)

	return s.decide(ctx, "ApproveBlock", blockID, approverID, events.ActionBlockApproved, func(b *domain.ScheduleBlock) error {
		return b.Approve(approverID, s.timeProvider.Now())
	})
}

// RejectBlock отклоняет блокировку с обязательной причиной
func (s *Service) RejectBlock(ctx context.Context, blockID, approverID int64, reason string) (*models.BlockResponse, error) {
	s.logger.Info("RejectBlock: block=%d by user=%d", blockID, approverID)

	if err := validateReason("rejectionReason", reason); err != nil {
		s.logger.Warn("RejectBlock: validation failed: %v", err)
		return nil, err
	}

	return s.decide(ctx, "RejectBlock", blockID, approverID, events.ActionBlockRejected, func(b *domain.ScheduleBlock) error {
		return b.Reject(approverID, reason, s.timeProvider.Now())
	})
}

// DeleteBlock удаляет блокировку в любом статусе. Владелец или администратор
func (s *Service) DeleteBlock(ctx context.Context, blockID, actorID int64) error {
	s.logger.Info("DeleteBlock: block=%d by user=%d", blockID, actorID)

	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		return s.translateRepoError("DeleteBlock", err)
	}

	actor, err := s.resolve(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && !actor.Is(block.ProfessionalID) {
		s.logger.Warn("DeleteBlock: user=%d cannot delete block id=%d", actorID, blockID)
		return ErrAccessDenied
	}

	if err := s.blockRepo.Delete(ctx, blockID); err != nil {
		return s.translateRepoError("DeleteBlock", err)
	}

	s.record(ctx, actorID, events.ActionBlockDeleted, block, string(block.Status))

	s.logger.Info("DeleteBlock: deleted block id=%d", blockID)
	return nil
}

// ListBlocks блокировки специалиста, опционально по статусу. Владелец или администратор
func (s *Service) ListBlocks(ctx context.Context, req *models.ListBlocksRequest) (*models.BlockListResponse, error) {
	s.logger.Info("ListBlocks: professional=%d, status=%v by user=%d", req.ProfessionalID, req.Status, req.ActorID)

	var status *domain.BlockStatus
	if req.Status != nil {
		if !domain.IsValidBlockStatus(*req.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *req.Status)
		}
		st := domain.BlockStatus(*req.Status)
		status = &st
	}

	actor, err := s.resolve(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Is(req.ProfessionalID) {
		s.logger.Warn("ListBlocks: user=%d cannot list blocks of professional=%d", req.ActorID, req.ProfessionalID)
		return nil, ErrAccessDenied
	}

	blocks, err := s.blockRepo.ListByProfessional(ctx, req.ProfessionalID, status)
	if err != nil {
		return nil, s.translateRepoError("ListBlocks", err)
	}

	return models.FromDomainBlockList(blocks), nil
}

// decide общий путь согласования: проверка роли, чтение с блокировкой строки, переход и запись по условию статуса
func (s *Service) decide(
	ctx context.Context,
	op string,
	blockID, approverID int64,
	action string,
	apply func(b *domain.ScheduleBlock) error,
) (*models.BlockResponse, error) {
	actor, err := s.resolve(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		s.logger.Warn("%s: user=%d is not an admin", op, approverID)
		return nil, ErrAccessDenied
	}

	var decided *domain.ScheduleBlock
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		block, err := s.blockRepo.GetByID(txCtx, blockID)
		if err != nil {
			return err
		}

		from := block.Status
		if err := apply(block); err != nil {
			return err
		}

		if err := s.blockRepo.UpdateDecision(txCtx, block, from); err != nil {
			if errors.Is(err, blockRepo.ErrStatusConflict) {
				return domain.NewTransitionError("block", string(from), string(block.Status))
			}
			return err
		}

		decided = block
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.logger.Warn("%s: block id=%d: %v", op, blockID, err)
			return nil, err
		}
		return nil, s.translateRepoError(op, err)
	}

	s.record(ctx, approverID, action, decided, string(decided.Status))

	s.logger.Info("%s: block id=%d is %s", op, blockID, decided.Status)
	return models.FromDomainBlock(decided), nil
}

func (s *Service) resolve(ctx context.Context, userID int64) (domain.Actor, error) {
	actor, err := s.actors.GetActor(ctx, userID)
	if err != nil {
		s.logger.Error("resolve: failed to resolve user=%d: %v", userID, err)
		return domain.Actor{}, fmt.Errorf("%w: resolve actor: %v", ErrInternal, err)
	}
	return actor, nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, b *domain.ScheduleBlock, details string) {
	s.audit.RecordAction(ctx, events.AuditAction{
		ActorID:  actorID,
		Action:   action,
		Entity:   "block",
		EntityID: b.ID,
		Details:  details,
	})
}

func (s *Service) translateRepoError(op string, err error) error {
	if errors.Is(err, blockRepo.ErrBlockNotFound) {
		s.logger.Warn("%s: block not found", op)
		return ErrBlockNotFound
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
