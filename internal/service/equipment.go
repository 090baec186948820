package service

import (
	"context"

	"equipment-inventory-api/internal/audit"
	"equipment-inventory-api/internal/model"
	"equipment-inventory-api/internal/repository"
	"equipment-inventory-api/internal/search"
	"equipment-inventory-api/pkg/errors"
	"equipment-inventory-api/pkg/validation"

	"go.uber.org/zap"
)

// EquipmentService handles business logic for equipment operations
type EquipmentService struct {
	repo     repository.EquipmentRepository
	logs     repository.ActionLogRepository
	recorder audit.Recorder
	logger   *zap.Logger
}

// NewEquipmentService creates a new equipment service
func NewEquipmentService(repo repository.EquipmentRepository, logs repository.ActionLogRepository, recorder audit.Recorder, logger *zap.Logger) *EquipmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquipmentService{
		repo:     repo,
		logs:     logs,
		recorder: recorder,
		logger:   logger,
	}
}

// ListEquipment returns every active record ordered by id.
func (s *EquipmentService) ListEquipment(ctx context.Context) ([]model.Equipment, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, storeError("failed to retrieve equipment", err)
	}
	return items, nil
}

// SearchEquipment returns the active records matching filter.
func (s *EquipmentService) SearchEquipment(ctx context.Context, filter search.Filter) ([]model.Equipment, error) {
	items, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, storeError("failed to search equipment", err)
	}

	s.logger.Debug("equipment search", zap.Any("filter", filter), zap.Int("results", len(items)))
	return items, nil
}

// GetEquipment returns one active record. Missing and retired ids are
// both reported as not found.
func (s *EquipmentService) GetEquipment(ctx context.Context, id int64) (*model.Equipment, error) {
	e, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEquipmentNotFound) {
			return nil, errors.NotFoundError("equipment")
		}
		return nil, storeError("failed to retrieve equipment", err)
	}
	return e, nil
}

// CreateEquipment validates and stores a new record, then records an
// "add" action for actor.
func (s *EquipmentService) CreateEquipment(ctx context.Context, actor model.Identity, input model.EquipmentInput) (*model.Equipment, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	var e model.Equipment
	input.Apply(&e)

	if err := s.repo.Create(ctx, &e); err != nil {
		return nil, storeError("failed to create equipment", err)
	}

	s.record(model.ActionAdd, e, actor, "Added new equipment: "+e.Name)
	s.logger.Info("equipment created", zap.Int64("id", e.ID), zap.Int64("user_id", actor.ID))

	return &e, nil
}

// UpdateEquipment overwrites every mutable field of an active record.
// Concurrent updates are not detected; the last write wins.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, actor model.Identity, id int64, input model.EquipmentInput) (*model.Equipment, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	existing, err := s.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Apply(existing)

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrEquipmentNotFound) {
			return nil, errors.NotFoundError("equipment")
		}
		return nil, storeError("failed to update equipment", err)
	}

	s.record(model.ActionUpdate, *existing, actor, "Updated equipment: "+existing.Name)
	s.logger.Info("equipment updated", zap.Int64("id", id), zap.Int64("user_id", actor.ID))

	return existing, nil
}

// DeleteEquipment retires an active record.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, actor model.Identity, id int64) error {
	existing, err := s.GetEquipment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEquipmentNotFound) {
			return errors.NotFoundError("equipment")
		}
		return storeError("failed to delete equipment", err)
	}

	s.record(model.ActionDelete, *existing, actor, "Deleted equipment: "+existing.Name)
	s.logger.Info("equipment deleted", zap.Int64("id", id), zap.Int64("user_id", actor.ID))

	return nil
}

// EquipmentHistory returns the action log of a record, retired or not.
func (s *EquipmentService) EquipmentHistory(ctx context.Context, id int64) ([]model.ActionLogEntry, error) {
	entries, err := s.logs.ListByEquipment(ctx, id)
	if err != nil {
		return nil, storeError("failed to retrieve equipment history", err)
	}
	return entries, nil
}

func (s *EquipmentService) validate(input *model.EquipmentInput) error {
	if fields := validation.ValidateEquipmentInput(input); len(fields) > 0 {
		return errors.ValidationErrorWithDetails("invalid equipment data", fields)
	}
	if !validation.IsKnownStatus(input.Status) {
		s.logger.Warn("unknown equipment status accepted", zap.String("status", input.Status))
	}
	return nil
}

func (s *EquipmentService) record(action model.ActionType, e model.Equipment, actor model.Identity, details string) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(model.ActionLogEntry{
		ActionType:  action,
		EquipmentID: e.ID,
		UserID:      actor.ID,
		Details:     details,
	})
}

// storeError converts a repository failure into an AppError. Deadline
// overruns become timeouts; everything else keeps the store message.
func storeError(message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.TimeoutError(message, err)
	}
	return errors.DatabaseError(message, err)
}
