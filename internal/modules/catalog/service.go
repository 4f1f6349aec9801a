package catalog

import (
	"context"
	"errors"
	"time"

	"pipecrm/internal/domain"
	"pipecrm/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrEntryNotFound = errors.New("catalog entry not found")
)

// Service manages the registry entities behind deals: loss reasons, sale
// performance reasons and the machine brand/model catalog. Entries are
// deactivated, never deleted.
type Service struct {
	catalog *repository.CatalogRepository
}

func NewService(catalog *repository.CatalogRepository) *Service {
	return &Service{catalog: catalog}
}

/* ---------- LOSS REASONS ---------- */

func (s *Service) CreateLossReason(ctx context.Context, name string) (*domain.LossReason, error) {
	if name == "" {
		return nil, ErrValidation
	}
	now := time.Now().UTC()
	lr := &domain.LossReason{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.catalog.CreateLossReason(ctx, lr); err != nil {
		return nil, err
	}
	return lr, nil
}

func (s *Service) ListLossReasons(ctx context.Context, includeInactive bool) ([]domain.LossReason, error) {
	return s.catalog.ListLossReasons(ctx, !includeInactive)
}

func (s *Service) SetLossReasonActive(ctx context.Context, id int64, active bool) error {
	return mapNotFound(s.catalog.SetLossReasonActive(ctx, id, active))
}

/* ---------- PERFORMANCE REASONS ---------- */

func (s *Service) CreatePerformanceReason(ctx context.Context, name string) (*domain.SalePerformanceReason, error) {
	if name == "" {
		return nil, ErrValidation
	}
	now := time.Now().UTC()
	pr := &domain.SalePerformanceReason{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.catalog.CreatePerformanceReason(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

func (s *Service) ListPerformanceReasons(ctx context.Context, includeInactive bool) ([]domain.SalePerformanceReason, error) {
	return s.catalog.ListPerformanceReasons(ctx, !includeInactive)
}

func (s *Service) SetPerformanceReasonActive(ctx context.Context, id int64, active bool) error {
	return mapNotFound(s.catalog.SetPerformanceReasonActive(ctx, id, active))
}

/* ---------- MACHINE BRANDS / MODELS ---------- */

func (s *Service) CreateBrand(ctx context.Context, name string) (*domain.MachineBrand, error) {
	if name == "" {
		return nil, ErrValidation
	}
	now := time.Now().UTC()
	b := &domain.MachineBrand{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.catalog.CreateBrand(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) ListBrands(ctx context.Context, includeInactive bool) ([]domain.MachineBrand, error) {
	return s.catalog.ListBrands(ctx, !includeInactive)
}

func (s *Service) SetBrandActive(ctx context.Context, id int64, active bool) error {
	return mapNotFound(s.catalog.SetBrandActive(ctx, id, active))
}

func (s *Service) CreateModel(ctx context.Context, brandID int64, name string) (*domain.MachineModel, error) {
	if name == "" || brandID <= 0 {
		return nil, ErrValidation
	}
	now := time.Now().UTC()
	m := &domain.MachineModel{BrandID: brandID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.catalog.CreateModel(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ListModelsByBrand(ctx context.Context, brandID int64, includeInactive bool) ([]domain.MachineModel, error) {
	return s.catalog.ListModelsByBrand(ctx, brandID, !includeInactive)
}

func (s *Service) SetModelActive(ctx context.Context, id int64, active bool) error {
	return mapNotFound(s.catalog.SetModelActive(ctx, id, active))
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEntryNotFound
	}
	return err
}
