package deal

import (
	"context"
	"testing"
	"time"

	"pipecrm/internal/domain"
	"pipecrm/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) Create(ctx context.Context, d *domain.Deal, act *domain.LeadActivity) error {
	args := m.Called(ctx, d, act)
	if d != nil {
		d.ID = 501 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockDealRepository) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deal), args.Error(1)
}

func (m *MockDealRepository) ListByPipeline(ctx context.Context, pipelineID int64) ([]domain.Deal, error) {
	args := m.Called(ctx, pipelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deal), args.Error(1)
}

func (m *MockDealRepository) ListByLead(ctx context.Context, leadID int64) ([]domain.Deal, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deal), args.Error(1)
}

func (m *MockDealRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Deal, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deal), args.Error(1)
}

func (m *MockDealRepository) ApplyTransition(ctx context.Context, dealID int64, tr repository.StageTransition) (*domain.Deal, error) {
	args := m.Called(ctx, dealID, tr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deal), args.Error(1)
}

func (m *MockDealRepository) DeleteCascade(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPipelineRepository struct {
	mock.Mock
}

func (m *MockPipelineRepository) GetByID(ctx context.Context, id int64) (*domain.Pipeline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pipeline), args.Error(1)
}

func (m *MockPipelineRepository) GetDefault(ctx context.Context) (*domain.Pipeline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pipeline), args.Error(1)
}

func (m *MockPipelineRepository) GetStageByID(ctx context.Context, id int64) (*domain.PipelineStage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineStage), args.Error(1)
}

func (m *MockPipelineRepository) FirstStage(ctx context.Context, pipelineID int64) (*domain.PipelineStage, error) {
	args := m.Called(ctx, pipelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineStage), args.Error(1)
}

func (m *MockPipelineRepository) EntryStage(ctx context.Context, pipelineID int64) (*domain.PipelineStage, error) {
	args := m.Called(ctx, pipelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineStage), args.Error(1)
}

func (m *MockPipelineRepository) StageByType(ctx context.Context, pipelineID int64, t domain.StageType) (*domain.PipelineStage, error) {
	args := m.Called(ctx, pipelineID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineStage), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) ListByDeal(ctx context.Context, dealID int64) ([]domain.StageHistory, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StageHistory), args.Error(1)
}

type MockLossReasonRepository struct {
	mock.Mock
}

func (m *MockLossReasonRepository) GetLossReason(ctx context.Context, id int64) (*domain.LossReason, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LossReason), args.Error(1)
}

type MockBoardInvalidator struct {
	mock.Mock
}

func (m *MockBoardInvalidator) InvalidatePipeline(ctx context.Context, pipelineID int64) {
	m.Called(ctx, pipelineID)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyDealMoved(pipelineID, dealID, stageID int64) {
	m.Called(pipelineID, dealID, stageID)
}

func (m *MockNotifier) NotifyDealOutcome(pipelineID, dealID int64, status domain.SaleStatus) {
	m.Called(pipelineID, dealID, status)
}

func (m *MockNotifier) NotifyDealDeleted(pipelineID, dealID int64) {
	m.Called(pipelineID, dealID)
}

func newTestService(deals *MockDealRepository, pipelines *MockPipelineRepository, leads *MockLeadRepository, history *MockHistoryRepository, reasons *MockLossReasonRepository) *Service {
	return NewService(deals, pipelines, leads, history, reasons, nil, nil)
}

func openDeal(id int64) *domain.Deal {
	return &domain.Deal{
		ID:         id,
		Name:       "Compressor for plant floor",
		LeadID:     7,
		PipelineID: 1,
		StageID:    10,
		Status:     domain.DealInProgress,
		SaleStatus: domain.SaleNegotiation,
		CreatedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestService_CreateDeal_DefaultPipelineEntryStage(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)
	mockLeads := new(MockLeadRepository)

	mockLeads.On("GetByID", mock.Anything, int64(7)).Return(&domain.Lead{ID: 7, Name: "Acme Metalworks"}, nil)
	mockPipelines.On("GetDefault", mock.Anything).Return(&domain.Pipeline{ID: 1, Name: "Sales", IsDefault: true}, nil)
	mockPipelines.On("EntryStage", mock.Anything, int64(1)).Return(&domain.PipelineStage{ID: 10, PipelineID: 1, Name: "Intake", Order: 1}, nil)
	mockDeals.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(act *domain.LeadActivity) bool {
		return act.Type == domain.ActivityDealCreated
	})).Return(nil)

	service := newTestService(mockDeals, mockPipelines, mockLeads, nil, nil)

	d, err := service.CreateDeal(context.Background(), CreateDealRequest{Name: "Compressor for plant floor", LeadID: 7})

	assert.NoError(t, err)
	assert.NotNil(t, d)
	assert.Equal(t, int64(1), d.PipelineID)
	assert.Equal(t, int64(10), d.StageID)
	assert.Equal(t, domain.SaleNegotiation, d.SaleStatus)
	assert.Equal(t, domain.DealInProgress, d.Status)
	mockDeals.AssertExpectations(t)
}

func TestService_CreateDeal_LeadNotFound(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)
	mockLeads := new(MockLeadRepository)

	mockLeads.On("GetByID", mock.Anything, int64(44)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(mockDeals, mockPipelines, mockLeads, nil, nil)

	_, err := service.CreateDeal(context.Background(), CreateDealRequest{Name: "Orphan deal", LeadID: 44})

	assert.ErrorIs(t, err, ErrLeadNotFound)
	mockDeals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_MoveToStage_Success(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)

	d := openDeal(501)
	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(d, nil)
	mockPipelines.On("GetStageByID", mock.Anything, int64(11)).Return(&domain.PipelineStage{ID: 11, PipelineID: 1, Name: "Proposal", Order: 2}, nil)
	mockPipelines.On("GetStageByID", mock.Anything, int64(10)).Return(&domain.PipelineStage{ID: 10, PipelineID: 1, Name: "Intake", Order: 1}, nil)

	moved := *d
	moved.StageID = 11
	mockDeals.On("ApplyTransition", mock.Anything, int64(501), mock.MatchedBy(func(tr repository.StageTransition) bool {
		return tr.ToStageID != nil && *tr.ToStageID == 11 &&
			tr.ToPipelineID == nil &&
			tr.Activity != nil && tr.Activity.Type == domain.ActivityStageChange
	})).Return(&moved, nil)

	service := newTestService(mockDeals, mockPipelines, nil, nil, nil)

	result, err := service.MoveToStage(context.Background(), 501, 11)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), result.StageID)
	mockDeals.AssertExpectations(t)
}

func TestService_MoveToStage_ForeignStageRejected(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(openDeal(501), nil)
	// Stage 30 lives in pipeline 2 while the deal is in pipeline 1.
	mockPipelines.On("GetStageByID", mock.Anything, int64(30)).Return(&domain.PipelineStage{ID: 30, PipelineID: 2, Name: "Quoting"}, nil)

	service := newTestService(mockDeals, mockPipelines, nil, nil, nil)

	_, err := service.MoveToStage(context.Background(), 501, 30)

	assert.ErrorIs(t, err, ErrStageNotInPipeline)
	mockDeals.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_MoveToStage_SameStageNoOp(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)

	d := openDeal(501)
	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(d, nil)
	mockPipelines.On("GetStageByID", mock.Anything, int64(10)).Return(&domain.PipelineStage{ID: 10, PipelineID: 1, Name: "Intake"}, nil)

	service := newTestService(mockDeals, mockPipelines, nil, nil, nil)

	result, err := service.MoveToStage(context.Background(), 501, 10)

	assert.NoError(t, err)
	assert.Equal(t, int64(10), result.StageID)
	mockDeals.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SwitchPipeline_LandsOnLowestOrderStage(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)

	d := openDeal(501)
	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(d, nil)
	mockPipelines.On("GetByID", mock.Anything, int64(2)).Return(&domain.Pipeline{ID: 2, Name: "After Sales"}, nil)
	mockPipelines.On("GetByID", mock.Anything, int64(1)).Return(&domain.Pipeline{ID: 1, Name: "Sales"}, nil)
	mockPipelines.On("FirstStage", mock.Anything, int64(2)).Return(&domain.PipelineStage{ID: 20, PipelineID: 2, Name: "Intake", Order: 1}, nil)

	switched := *d
	switched.PipelineID = 2
	switched.StageID = 20
	mockDeals.On("ApplyTransition", mock.Anything, int64(501), mock.MatchedBy(func(tr repository.StageTransition) bool {
		return tr.ToPipelineID != nil && *tr.ToPipelineID == 2 &&
			tr.ToStageID != nil && *tr.ToStageID == 20 &&
			tr.Activity != nil && tr.Activity.Type == domain.ActivityPipelineChange
	})).Return(&switched, nil)

	service := newTestService(mockDeals, mockPipelines, nil, nil, nil)

	result, err := service.SwitchPipeline(context.Background(), 501, 2, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.PipelineID)
	assert.Equal(t, int64(20), result.StageID)
	mockDeals.AssertExpectations(t)
}

func TestService_SwitchPipeline_IgnoresForeignRequestedStage(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)

	d := openDeal(501)
	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(d, nil)
	mockPipelines.On("GetByID", mock.Anything, int64(2)).Return(&domain.Pipeline{ID: 2, Name: "After Sales"}, nil)
	mockPipelines.On("GetByID", mock.Anything, int64(1)).Return(&domain.Pipeline{ID: 1, Name: "Sales"}, nil)
	// Requested stage 10 belongs to pipeline 1, not the target.
	mockPipelines.On("GetStageByID", mock.Anything, int64(10)).Return(&domain.PipelineStage{ID: 10, PipelineID: 1, Name: "Intake"}, nil)
	mockPipelines.On("FirstStage", mock.Anything, int64(2)).Return(&domain.PipelineStage{ID: 20, PipelineID: 2, Name: "Intake", Order: 1}, nil)

	switched := *d
	switched.PipelineID = 2
	switched.StageID = 20
	mockDeals.On("ApplyTransition", mock.Anything, int64(501), mock.MatchedBy(func(tr repository.StageTransition) bool {
		return tr.ToStageID != nil && *tr.ToStageID == 20
	})).Return(&switched, nil)

	service := newTestService(mockDeals, mockPipelines, nil, nil, nil)

	result, err := service.SwitchPipeline(context.Background(), 501, 2, 10)

	assert.NoError(t, err)
	assert.Equal(t, int64(20), result.StageID)
}

func TestService_SwitchPipeline_EmptyTarget(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(openDeal(501), nil)
	mockPipelines.On("GetByID", mock.Anything, int64(3)).Return(&domain.Pipeline{ID: 3, Name: "Empty"}, nil)
	mockPipelines.On("FirstStage", mock.Anything, int64(3)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(mockDeals, mockPipelines, nil, nil, nil)

	_, err := service.SwitchPipeline(context.Background(), 501, 3, 0)

	assert.ErrorIs(t, err, ErrPipelineEmpty)
	mockDeals.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SetSaleOutcome_WonMovesToCompletedStage(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)

	d := openDeal(501)
	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(d, nil)
	mockPipelines.On("StageByType", mock.Anything, int64(1), domain.StageTypeCompleted).Return(&domain.PipelineStage{ID: 99, PipelineID: 1, Name: "Completed", StageType: domain.StageTypeCompleted}, nil)

	won := *d
	won.StageID = 99
	won.SaleStatus = domain.SaleWon
	won.SalePerformance = domain.PerformanceAtQuote
	mockDeals.On("ApplyTransition", mock.Anything, int64(501), mock.MatchedBy(func(tr repository.StageTransition) bool {
		return tr.SaleStatus != nil && *tr.SaleStatus == domain.SaleWon &&
			tr.SalePerformance != nil && *tr.SalePerformance == domain.PerformanceAtQuote &&
			tr.ToStageID != nil && *tr.ToStageID == 99 &&
			tr.Activity != nil && tr.Activity.Type == domain.ActivitySaleWon
	})).Return(&won, nil)

	service := newTestService(mockDeals, mockPipelines, nil, nil, nil)

	result, err := service.SetSaleOutcome(context.Background(), 501, OutcomeRequest{
		Outcome:         "won",
		SalePerformance: "at_quote",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.SaleWon, result.SaleStatus)
	assert.Equal(t, int64(99), result.StageID)
	mockDeals.AssertExpectations(t)
}

func TestService_SetSaleOutcome_WonWithoutCompletedStage(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)

	d := openDeal(501)
	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(d, nil)
	// Pipeline has no reserved completed stage. The outcome is still
	// recorded and the deal stays on its current stage.
	mockPipelines.On("StageByType", mock.Anything, int64(1), domain.StageTypeCompleted).Return(nil, gorm.ErrRecordNotFound)

	won := *d
	won.SaleStatus = domain.SaleWon
	mockDeals.On("ApplyTransition", mock.Anything, int64(501), mock.MatchedBy(func(tr repository.StageTransition) bool {
		return tr.SaleStatus != nil && *tr.SaleStatus == domain.SaleWon && tr.ToStageID == nil
	})).Return(&won, nil)

	service := newTestService(mockDeals, mockPipelines, nil, nil, nil)

	result, err := service.SetSaleOutcome(context.Background(), 501, OutcomeRequest{
		Outcome:         "won",
		SalePerformance: "above_quote",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.SaleWon, result.SaleStatus)
	assert.Equal(t, int64(10), result.StageID)
}

func TestService_SetSaleOutcome_WonRequiresPerformance(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(openDeal(501), nil)

	service := newTestService(mockDeals, mockPipelines, nil, nil, nil)

	// The engine enforces this independently of request binding.
	_, err := service.SetSaleOutcome(context.Background(), 501, OutcomeRequest{Outcome: "won"})

	assert.ErrorIs(t, err, ErrValidation)
	mockDeals.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SetSaleOutcome_LostRequiresKnownReason(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)
	mockReasons := new(MockLossReasonRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(openDeal(501), nil)
	mockReasons.On("GetLossReason", mock.Anything, int64(77)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(mockDeals, mockPipelines, nil, nil, mockReasons)

	_, err := service.SetSaleOutcome(context.Background(), 501, OutcomeRequest{
		Outcome:      "lost",
		LostReasonID: 77,
	})

	assert.ErrorIs(t, err, ErrLossReasonNotFound)
	mockDeals.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SetSaleOutcome_LostSuccess(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)
	mockReasons := new(MockLossReasonRepository)

	d := openDeal(501)
	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(d, nil)
	mockReasons.On("GetLossReason", mock.Anything, int64(3)).Return(&domain.LossReason{ID: 3, Name: "Price too high"}, nil)
	mockPipelines.On("StageByType", mock.Anything, int64(1), domain.StageTypeLost).Return(&domain.PipelineStage{ID: 98, PipelineID: 1, Name: "Lost", StageType: domain.StageTypeLost}, nil)

	lostReasonID := int64(3)
	lost := *d
	lost.StageID = 98
	lost.SaleStatus = domain.SaleLost
	lost.LostReasonID = &lostReasonID
	mockDeals.On("ApplyTransition", mock.Anything, int64(501), mock.MatchedBy(func(tr repository.StageTransition) bool {
		return tr.SaleStatus != nil && *tr.SaleStatus == domain.SaleLost &&
			tr.LostReasonID != nil && *tr.LostReasonID == 3 &&
			tr.ToStageID != nil && *tr.ToStageID == 98 &&
			tr.Activity != nil && tr.Activity.Type == domain.ActivitySaleLost
	})).Return(&lost, nil)

	service := newTestService(mockDeals, mockPipelines, nil, nil, mockReasons)

	result, err := service.SetSaleOutcome(context.Background(), 501, OutcomeRequest{
		Outcome:      "lost",
		LostReasonID: 3,
		LostNotes:    "Went with a cheaper competitor",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.SaleLost, result.SaleStatus)
	assert.Equal(t, int64(98), result.StageID)
}

func TestService_ReopenDeal_ClearsOutcome(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)

	d := openDeal(501)
	d.StageID = 99
	d.SaleStatus = domain.SaleWon
	d.SalePerformance = domain.PerformanceAtQuote
	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(d, nil)

	reopened := *d
	reopened.SaleStatus = domain.SaleNegotiation
	reopened.SalePerformance = ""
	mockDeals.On("ApplyTransition", mock.Anything, int64(501), mock.MatchedBy(func(tr repository.StageTransition) bool {
		return tr.SaleStatus != nil && *tr.SaleStatus == domain.SaleNegotiation &&
			tr.ClearOutcome &&
			tr.ToStageID == nil &&
			tr.Activity != nil && tr.Activity.Type == domain.ActivityDealReopened
	})).Return(&reopened, nil)

	service := newTestService(mockDeals, mockPipelines, nil, nil, nil)

	result, err := service.ReopenDeal(context.Background(), 501)

	assert.NoError(t, err)
	assert.Equal(t, domain.SaleNegotiation, result.SaleStatus)
	// The stage stays where the outcome left it.
	assert.Equal(t, int64(99), result.StageID)
	mockDeals.AssertExpectations(t)
}

func TestService_ReopenDeal_OpenDealNoOp(t *testing.T) {
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(openDeal(501), nil)

	service := newTestService(mockDeals, nil, nil, nil, nil)

	result, err := service.ReopenDeal(context.Background(), 501)

	assert.NoError(t, err)
	assert.Equal(t, domain.SaleNegotiation, result.SaleStatus)
	mockDeals.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_DeleteDeal_InvalidatesBoardAndNotifies(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockBoard := new(MockBoardInvalidator)
	mockNotifs := new(MockNotifier)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(openDeal(501), nil)
	mockDeals.On("DeleteCascade", mock.Anything, int64(501)).Return(nil)
	mockBoard.On("InvalidatePipeline", mock.Anything, int64(1)).Return()
	mockNotifs.On("NotifyDealDeleted", int64(1), int64(501)).Return()

	service := NewService(mockDeals, nil, nil, nil, nil, mockBoard, mockNotifs)

	err := service.DeleteDeal(context.Background(), 501)

	assert.NoError(t, err)
	mockDeals.AssertExpectations(t)
	mockBoard.AssertExpectations(t)
	mockNotifs.AssertExpectations(t)
}

func TestService_DeleteDeal_NotFound(t *testing.T) {
	mockDeals := new(MockDealRepository)

	mockDeals.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(mockDeals, nil, nil, nil, nil)

	err := service.DeleteDeal(context.Background(), 404)

	assert.ErrorIs(t, err, ErrDealNotFound)
	mockDeals.AssertNotCalled(t, "DeleteCascade", mock.Anything, mock.Anything)
}

func TestService_UpdateDeal_InvalidStatus(t *testing.T) {
	mockDeals := new(MockDealRepository)

	service := newTestService(mockDeals, nil, nil, nil, nil)

	bad := "archived"
	_, err := service.UpdateDeal(context.Background(), 501, UpdateDealRequest{Status: &bad})

	assert.ErrorIs(t, err, ErrValidation)
	mockDeals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_StageTimeline(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockHistory := new(MockHistoryRepository)

	mockDeals.On("GetByID", mock.Anything, int64(501)).Return(openDeal(501), nil)

	left := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	entered := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mockHistory.On("ListByDeal", mock.Anything, int64(501)).Return([]domain.StageHistory{
		{ID: 1, DealID: 501, StageID: 10, EnteredAt: entered, LeftAt: &left},
		{ID: 2, DealID: 501, StageID: 11, EnteredAt: left},
	}, nil)

	service := newTestService(mockDeals, nil, nil, mockHistory, nil)

	rows, err := service.StageTimeline(context.Background(), 501)

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Nil(t, rows[1].LeftAt)
}
