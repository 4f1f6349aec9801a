package board

import (
	"context"
	"testing"

	"pipecrm/internal/cache"
	"pipecrm/internal/domain"
	"pipecrm/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) StageSummaries(ctx context.Context, pipelineID int64) ([]repository.StageSummary, error) {
	args := m.Called(ctx, pipelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StageSummary), args.Error(1)
}

func (m *MockDealRepository) CountBySaleStatus(ctx context.Context, pipelineID int64) (map[domain.SaleStatus]int64, error) {
	args := m.Called(ctx, pipelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.SaleStatus]int64), args.Error(1)
}

func (m *MockDealRepository) ListByPipeline(ctx context.Context, pipelineID int64) ([]domain.Deal, error) {
	args := m.Called(ctx, pipelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deal), args.Error(1)
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

func testCache(t *testing.T) cache.Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return cache.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func stubSummaries(mockDeals *MockDealRepository, mockPipelines *MockPipelineRepository, times int) {
	mockPipelines.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Pipeline{ID: 1, Name: "Sales"}, nil).Times(times)
	mockDeals.On("StageSummaries", mock.Anything, int64(1)).Return([]repository.StageSummary{
		{StageID: 10, StageName: "Intake", Order: 1, DealCount: 3, TotalValue: 42000},
		{StageID: 11, StageName: "Proposal", Order: 2, DealCount: 1, TotalValue: 18500},
	}, nil).Times(times)
	mockDeals.On("CountBySaleStatus", mock.Anything, int64(1)).Return(map[domain.SaleStatus]int64{
		domain.SaleNegotiation: 4,
	}, nil).Times(times)
}

func TestService_GetSummary_CachesSecondRead(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)
	stubSummaries(mockDeals, mockPipelines, 1)

	service := NewService(mockDeals, mockPipelines, testCache(t))

	first, err := service.GetSummary(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, first.Stages, 2)
	assert.Equal(t, 42000.0, first.Stages[0].TotalValue)

	// Second read must come from cache; the mocks only allow one DB pass.
	second, err := service.GetSummary(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, first.Stages, second.Stages)
	mockDeals.AssertExpectations(t)
}

func TestService_GetSummary_InvalidateForcesRebuild(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)
	stubSummaries(mockDeals, mockPipelines, 2)

	service := NewService(mockDeals, mockPipelines, testCache(t))

	_, err := service.GetSummary(context.Background(), 1)
	assert.NoError(t, err)

	service.InvalidatePipeline(context.Background(), 1)

	_, err = service.GetSummary(context.Background(), 1)
	assert.NoError(t, err)
	mockDeals.AssertExpectations(t)
}

func TestService_GetSummary_NoopCacheStillServes(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)
	stubSummaries(mockDeals, mockPipelines, 2)

	service := NewService(mockDeals, mockPipelines, nil)

	first, err := service.GetSummary(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), first.SaleStatus[domain.SaleNegotiation])

	// Noop cache never hits, so every read goes to the DB.
	_, err = service.GetSummary(context.Background(), 1)
	assert.NoError(t, err)
	mockDeals.AssertExpectations(t)
}

func TestService_GetSummary_PipelineNotFound(t *testing.T) {
	mockDeals := new(MockDealRepository)
	mockPipelines := new(MockPipelineRepository)

	mockPipelines.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockDeals, mockPipelines, testCache(t))

	_, err := service.GetSummary(context.Background(), 404)

	assert.ErrorIs(t, err, ErrPipelineNotFound)
}
