package machine

import (
	"context"
	"errors"
	"time"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	machines MachineRepository
	deals    DealRepository
}

func NewService(machines MachineRepository, deals DealRepository) *Service {
	return &Service{machines: machines, deals: deals}
}

func (s *Service) AddMachine(ctx context.Context, dealID int64, req CreateMachineRequest) (*domain.ClientMachine, error) {
	if err := s.checkDeal(ctx, dealID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &domain.ClientMachine{
		DealID:       dealID,
		BrandID:      req.BrandID,
		ModelID:      req.ModelID,
		SerialNumber: req.SerialNumber,
		Year:         req.Year,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.machines.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) UpdateMachine(ctx context.Context, dealID, machineID int64, req UpdateMachineRequest) (*domain.ClientMachine, error) {
	if _, err := s.getMachineInDeal(ctx, dealID, machineID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.BrandID != nil {
		updates["brand_id"] = *req.BrandID
	}
	if req.ModelID != nil {
		updates["model_id"] = *req.ModelID
	}
	if req.SerialNumber != nil {
		updates["serial_number"] = *req.SerialNumber
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return s.machines.GetByID(ctx, machineID)
	}
	updates["updated_at"] = time.Now().UTC()

	m, err := s.machines.Update(ctx, machineID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMachineNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *Service) RemoveMachine(ctx context.Context, dealID, machineID int64) error {
	if _, err := s.getMachineInDeal(ctx, dealID, machineID); err != nil {
		return err
	}

	if err := s.machines.Delete(ctx, machineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMachineNotFound
		}
		return err
	}
	return nil
}

func (s *Service) ListByDeal(ctx context.Context, dealID int64) ([]domain.ClientMachine, error) {
	if err := s.checkDeal(ctx, dealID); err != nil {
		return nil, err
	}
	return s.machines.ListByDeal(ctx, dealID)
}

func (s *Service) checkDeal(ctx context.Context, dealID int64) error {
	if _, err := s.deals.GetByID(ctx, dealID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDealNotFound
		}
		return err
	}
	return nil
}

func (s *Service) getMachineInDeal(ctx context.Context, dealID, machineID int64) (*domain.ClientMachine, error) {
	if err := s.checkDeal(ctx, dealID); err != nil {
		return nil, err
	}

	m, err := s.machines.GetByID(ctx, machineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMachineNotFound
		}
		return nil, err
	}
	if m.DealID != dealID {
		return nil, ErrMachineNotFound
	}
	return m, nil
}
