package lead

import (
	"context"
	"testing"

	"pipecrm/internal/domain"
	"pipecrm/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	args := m.Called(ctx, l)
	if l != nil {
		l.ID = 7 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Lead, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, f repository.LeadFilters) ([]domain.Lead, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Lead), args.Get(1).(int64), args.Error(2)
}

func TestService_CreateLead_Defaults(t *testing.T) {
	mockLeads := new(MockLeadRepository)

	mockLeads.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Lead) bool {
		return l.Category == domain.CategoryFinalConsumer && l.PersonType == domain.PersonTypeIndividual
	})).Return(nil)

	service := NewService(mockLeads)

	l, err := service.CreateLead(context.Background(), CreateLeadRequest{Name: "Acme Metalworks"})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), l.ID)
	mockLeads.AssertExpectations(t)
}

func TestService_CreateLead_CompanyWithCNPJ(t *testing.T) {
	mockLeads := new(MockLeadRepository)

	mockLeads.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockLeads)

	l, err := service.CreateLead(context.Background(), CreateLeadRequest{
		Name:        "Acme Metalworks",
		CompanyName: "Acme Metalworks LTDA",
		Category:    "reseller",
		PersonType:  "company",
		CPFCNPJ:     "12345678000195",
		City:        "Curitiba",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.CategoryReseller, l.Category)
	assert.Equal(t, "12345678000195", l.CPFCNPJ)
}

func TestService_CreateLead_BadDocument(t *testing.T) {
	mockLeads := new(MockLeadRepository)

	service := NewService(mockLeads)

	_, err := service.CreateLead(context.Background(), CreateLeadRequest{
		Name:    "Acme Metalworks",
		CPFCNPJ: "12.345.678/0001-95",
	})

	assert.ErrorIs(t, err, ErrValidation)
	mockLeads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_UpdateLead_NotFound(t *testing.T) {
	mockLeads := new(MockLeadRepository)

	name := "New name"
	mockLeads.On("Update", mock.Anything, int64(404), mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockLeads)

	_, err := service.UpdateLead(context.Background(), 404, UpdateLeadRequest{Name: &name})

	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestService_ListLeads_DefaultLimit(t *testing.T) {
	mockLeads := new(MockLeadRepository)

	mockLeads.On("List", mock.Anything, repository.LeadFilters{Search: "acme", Limit: 50}).
		Return([]domain.Lead{{ID: 7, Name: "Acme Metalworks"}}, int64(1), nil)

	service := NewService(mockLeads)

	leads, total, err := service.ListLeads(context.Background(), ListLeadsQuery{Search: "acme"})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, leads, 1)
	mockLeads.AssertExpectations(t)
}
