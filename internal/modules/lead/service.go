package lead

import (
	"context"
	"errors"
	"time"

	"pipecrm/internal/domain"
	"pipecrm/internal/pkg/validator"
	"pipecrm/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	leads LeadRepository
}

func NewService(leads LeadRepository) *Service {
	return &Service{leads: leads}
}

func (s *Service) CreateLead(ctx context.Context, req CreateLeadRequest) (*domain.Lead, error) {
	if req.Name == "" {
		return nil, ErrValidation
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}

	category := domain.LeadCategory(req.Category)
	if category == "" {
		category = domain.CategoryFinalConsumer
	}
	personType := domain.PersonType(req.PersonType)
	if personType == "" {
		personType = domain.PersonTypeIndividual
	}

	now := time.Now().UTC()
	l := &domain.Lead{
		Name:              req.Name,
		CompanyName:       req.CompanyName,
		Category:          category,
		PersonType:        personType,
		CPFCNPJ:           req.CPFCNPJ,
		StateRegistration: req.StateRegistration,
		Email:             req.Email,
		Phone:             req.Phone,
		Street:            req.Street,
		Number:            req.Number,
		District:          req.District,
		City:              req.City,
		State:             req.State,
		ZipCode:           req.ZipCode,
		Notes:             req.Notes,
		ContactCenterID:   req.ContactCenterID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.leads.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) GetLead(ctx context.Context, id int64) (*domain.Lead, error) {
	l, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) UpdateLead(ctx context.Context, id int64, req UpdateLeadRequest) (*domain.Lead, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrValidation
		}
		updates["name"] = *req.Name
	}
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.PersonType != nil {
		updates["person_type"] = *req.PersonType
	}
	if req.CPFCNPJ != nil {
		probe := CreateLeadRequest{Name: "x", CPFCNPJ: *req.CPFCNPJ}
		if errs := validator.Validate(probe); errs != nil {
			return nil, ErrValidation
		}
		updates["cpf_cnpj"] = *req.CPFCNPJ
	}
	if req.StateRegistration != nil {
		updates["state_registration"] = *req.StateRegistration
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Street != nil {
		updates["street"] = *req.Street
	}
	if req.Number != nil {
		updates["number"] = *req.Number
	}
	if req.District != nil {
		updates["district"] = *req.District
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.ZipCode != nil {
		updates["zip_code"] = *req.ZipCode
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.ContactCenterID != nil {
		updates["contact_center_id"] = *req.ContactCenterID
	}
	if len(updates) == 0 {
		return s.GetLead(ctx, id)
	}
	updates["updated_at"] = time.Now().UTC()

	l, err := s.leads.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return l, nil
}

// ListLeads pages through the lead book. Leads are never deleted through the
// API; a lead with no open deals is simply dormant.
func (s *Service) ListLeads(ctx context.Context, q ListLeadsQuery) ([]domain.Lead, int64, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	return s.leads.List(ctx, repository.LeadFilters{
		Search:   q.Search,
		Category: q.Category,
		City:     q.City,
		Limit:    limit,
		Offset:   q.Offset,
	})
}
