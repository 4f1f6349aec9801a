package quote

import (
	"context"
	"testing"
	"time"

	"pipecrm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories
type MockQuoteItemRepository struct {
	mock.Mock
}

func (m *MockQuoteItemRepository) InsertWithDelta(ctx context.Context, item *domain.QuoteItem) error {
	args := m.Called(ctx, item)
	if item != nil {
		item.ID = 301 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockQuoteItemRepository) UpdateWithDelta(ctx context.Context, id int64, description string, quantity int, unitPrice float64) (*domain.QuoteItem, error) {
	args := m.Called(ctx, id, description, quantity, unitPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuoteItem), args.Error(1)
}

func (m *MockQuoteItemRepository) DeleteWithDelta(ctx context.Context, id int64) (*domain.QuoteItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuoteItem), args.Error(1)
}

func (m *MockQuoteItemRepository) GetByID(ctx context.Context, id int64) (*domain.QuoteItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuoteItem), args.Error(1)
}

func (m *MockQuoteItemRepository) ListByDeal(ctx context.Context, dealID int64) ([]domain.QuoteItem, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuoteItem), args.Error(1)
}

func (m *MockQuoteItemRepository) SumByDeal(ctx context.Context, dealID int64) (float64, error) {
	args := m.Called(ctx, dealID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockQuoteItemRepository) SumByDealAndDay(ctx context.Context, dealID int64, day time.Time) (float64, error) {
	args := m.Called(ctx, dealID, day)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockQuoteItemRepository) SetQuoteValue(ctx context.Context, dealID int64, total float64) error {
	args := m.Called(ctx, dealID, total)
	return args.Error(0)
}

type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deal), args.Error(1)
}

func (m *MockDealRepository) SetValue(ctx context.Context, id int64, value, quoteValue float64) error {
	args := m.Called(ctx, id, value, quoteValue)
	return args.Error(0)
}

func testDeal() *domain.Deal {
	return &domain.Deal{
		ID:         501,
		Name:       "Hydraulic press retrofit",
		LeadID:     7,
		PipelineID: 1,
		StageID:    10,
		SaleStatus: domain.SaleNegotiation,
	}
}

func TestService_AddItem_Success(t *testing.T) {
	mockItems := new(MockQuoteItemRepository)
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(testDeal(), nil)
	mockItems.On("InsertWithDelta", mock.Anything, mock.MatchedBy(func(item *domain.QuoteItem) bool {
		return item.DealID == 501 && item.Quantity == 3 && item.UnitPrice == 1200.0
	})).Return(nil)

	service := NewService(mockItems, mockDeals, nil)

	item, err := service.AddItem(context.Background(), 501, AddItemRequest{
		Description: "Seal kit",
		Quantity:    3,
		UnitPrice:   1200.0,
	})

	assert.NoError(t, err)
	assert.NotNil(t, item)
	assert.Equal(t, 3600.0, item.Total())
	mockItems.AssertExpectations(t)
}

func TestService_AddItem_RejectsNonPositiveQuantity(t *testing.T) {
	mockItems := new(MockQuoteItemRepository)
	mockDeals := new(MockDealRepository)

	service := NewService(mockItems, mockDeals, nil)

	_, err := service.AddItem(context.Background(), 501, AddItemRequest{
		Description: "Seal kit",
		Quantity:    0,
		UnitPrice:   1200.0,
	})

	assert.ErrorIs(t, err, ErrValidation)
	mockItems.AssertNotCalled(t, "InsertWithDelta", mock.Anything, mock.Anything)
}

func TestService_AddItem_DealNotFound(t *testing.T) {
	mockItems := new(MockQuoteItemRepository)
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockItems, mockDeals, nil)

	_, err := service.AddItem(context.Background(), 404, AddItemRequest{
		Description: "Seal kit",
		Quantity:    1,
		UnitPrice:   100.0,
	})

	assert.ErrorIs(t, err, ErrDealNotFound)
}

func TestService_UpdateItem_ForeignItemRejected(t *testing.T) {
	mockItems := new(MockQuoteItemRepository)
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(testDeal(), nil)
	// Item 301 belongs to a different deal.
	mockItems.On("GetByID", mock.Anything, int64(301)).Return(&domain.QuoteItem{ID: 301, DealID: 777}, nil)

	service := NewService(mockItems, mockDeals, nil)

	_, err := service.UpdateItem(context.Background(), 501, 301, UpdateItemRequest{
		Description: "Seal kit",
		Quantity:    1,
		UnitPrice:   100.0,
	})

	assert.ErrorIs(t, err, ErrItemNotInDeal)
	mockItems.AssertNotCalled(t, "UpdateWithDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_RemoveItem_Success(t *testing.T) {
	mockItems := new(MockQuoteItemRepository)
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(testDeal(), nil)
	mockItems.On("GetByID", mock.Anything, int64(301)).Return(&domain.QuoteItem{ID: 301, DealID: 501, Quantity: 2, UnitPrice: 50}, nil)
	mockItems.On("DeleteWithDelta", mock.Anything, int64(301)).Return(&domain.QuoteItem{ID: 301, DealID: 501, Quantity: 2, UnitPrice: 50}, nil)

	service := NewService(mockItems, mockDeals, nil)

	err := service.RemoveItem(context.Background(), 501, 301)

	assert.NoError(t, err)
	mockItems.AssertExpectations(t)
}

func TestService_ListQuotations_GroupsByUTCDay(t *testing.T) {
	mockItems := new(MockQuoteItemRepository)
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(testDeal(), nil)

	day1 := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 16, 45, 0, 0, time.UTC)
	mockItems.On("ListByDeal", mock.Anything, int64(501)).Return([]domain.QuoteItem{
		{ID: 1, DealID: 501, Description: "Base unit", Quantity: 1, UnitPrice: 9000, CreatedAt: day1},
		{ID: 2, DealID: 501, Description: "Install", Quantity: 4, UnitPrice: 250, CreatedAt: day1.Add(2 * time.Hour)},
		{ID: 3, DealID: 501, Description: "Base unit", Quantity: 1, UnitPrice: 8500, CreatedAt: day2},
	}, nil)

	service := NewService(mockItems, mockDeals, nil)

	quotations, err := service.ListQuotations(context.Background(), 501)

	assert.NoError(t, err)
	assert.Len(t, quotations, 2)
	assert.Equal(t, "2026-03-01", quotations[0].Date)
	assert.Equal(t, 10000.0, quotations[0].Total)
	assert.Len(t, quotations[0].Items, 2)
	assert.Equal(t, "2026-03-02", quotations[1].Date)
	assert.Equal(t, 8500.0, quotations[1].Total)
}

func TestService_ListQuotations_Empty(t *testing.T) {
	mockItems := new(MockQuoteItemRepository)
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(testDeal(), nil)
	mockItems.On("ListByDeal", mock.Anything, int64(501)).Return([]domain.QuoteItem{}, nil)

	service := NewService(mockItems, mockDeals, nil)

	quotations, err := service.ListQuotations(context.Background(), 501)

	assert.NoError(t, err)
	assert.Empty(t, quotations)
}

func TestService_SelectQuotation_OverridesBothTotals(t *testing.T) {
	mockItems := new(MockQuoteItemRepository)
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(testDeal(), nil).Once()

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mockItems.On("SumByDealAndDay", mock.Anything, int64(501), day).Return(10000.0, nil)

	// Both cached totals must land on the selected day's sum.
	mockDeals.On("SetValue", mock.Anything, int64(501), 10000.0, 10000.0).Return(nil)

	locked := testDeal()
	locked.Value = 10000.0
	locked.QuoteValue = 10000.0
	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(locked, nil)

	service := NewService(mockItems, mockDeals, nil)

	d, err := service.SelectQuotation(context.Background(), 501, SelectQuotationRequest{Date: "2026-03-01"})

	assert.NoError(t, err)
	assert.Equal(t, 10000.0, d.Value)
	assert.Equal(t, 10000.0, d.QuoteValue)
	mockDeals.AssertExpectations(t)
}

func TestService_SelectQuotation_EmptyDay(t *testing.T) {
	mockItems := new(MockQuoteItemRepository)
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(testDeal(), nil)
	mockItems.On("SumByDealAndDay", mock.Anything, int64(501), mock.Anything).Return(0.0, nil)

	service := NewService(mockItems, mockDeals, nil)

	_, err := service.SelectQuotation(context.Background(), 501, SelectQuotationRequest{Date: "2026-03-05"})

	assert.ErrorIs(t, err, ErrEmptyQuote)
	mockDeals.AssertNotCalled(t, "SetValue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SelectQuotation_BadDate(t *testing.T) {
	service := NewService(new(MockQuoteItemRepository), new(MockDealRepository), nil)

	_, err := service.SelectQuotation(context.Background(), 501, SelectQuotationRequest{Date: "03/01/2026"})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_RecomputeDealValue(t *testing.T) {
	mockItems := new(MockQuoteItemRepository)
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(testDeal(), nil)
	mockItems.On("SumByDeal", mock.Anything, int64(501)).Return(18500.0, nil)
	mockItems.On("SetQuoteValue", mock.Anything, int64(501), 18500.0).Return(nil)

	service := NewService(mockItems, mockDeals, nil)

	total, err := service.RecomputeDealValue(context.Background(), 501)

	assert.NoError(t, err)
	assert.Equal(t, 18500.0, total)
	mockItems.AssertExpectations(t)
}

func TestService_RecomputeDealValue_NoItemsYieldsZero(t *testing.T) {
	mockItems := new(MockQuoteItemRepository)
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(testDeal(), nil)
	mockItems.On("SumByDeal", mock.Anything, int64(501)).Return(0.0, nil)
	mockItems.On("SetQuoteValue", mock.Anything, int64(501), 0.0).Return(nil)

	service := NewService(mockItems, mockDeals, nil)

	total, err := service.RecomputeDealValue(context.Background(), 501)

	assert.NoError(t, err)
	assert.Equal(t, 0.0, total)
}
