package repository

import (
	"context"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

type PipelineRepository struct {
	db *gorm.DB
}

func NewPipelineRepository(db *gorm.DB) *PipelineRepository {
	return &PipelineRepository{db: db}
}

func stagesOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func (r *PipelineRepository) Create(ctx context.Context, p *domain.Pipeline) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PipelineRepository) GetByID(ctx context.Context, id int64) (*domain.Pipeline, error) {
	var p domain.Pipeline
	err := r.db.WithContext(ctx).Preload("Stages", stagesOrdered).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PipelineRepository) List(ctx context.Context) ([]domain.Pipeline, error) {
	var pipelines []domain.Pipeline
	err := r.db.WithContext(ctx).
		Preload("Stages", stagesOrdered).
		Order("is_default DESC, name ASC").
		Find(&pipelines).Error
	return pipelines, err
}

func (r *PipelineRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Pipeline, error) {
	res := r.db.WithContext(ctx).Model(&domain.Pipeline{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PipelineRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pipeline_id = ?", id).Delete(&domain.PipelineStage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Pipeline{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *PipelineRepository) GetDefault(ctx context.Context) (*domain.Pipeline, error) {
	var p domain.Pipeline
	err := r.db.WithContext(ctx).
		Preload("Stages", stagesOrdered).
		Where("is_default = ?", true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetDefault makes one pipeline the default and clears the flag everywhere
// else. The single-default rule is a business rule, not a constraint, so the
// swap runs in one transaction.
func (r *PipelineRepository) SetDefault(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&domain.Pipeline{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&domain.Pipeline{}).Where("is_default = ?", true).Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Pipeline{}).Where("id = ?", id).Update("is_default", true).Error
	})
}

// --- stages ---

func (r *PipelineRepository) CreateStage(ctx context.Context, s *domain.PipelineStage) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *PipelineRepository) GetStageByID(ctx context.Context, id int64) (*domain.PipelineStage, error) {
	var s domain.PipelineStage
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PipelineRepository) UpdateStage(ctx context.Context, id int64, updates map[string]interface{}) (*domain.PipelineStage, error) {
	res := r.db.WithContext(ctx).Model(&domain.PipelineStage{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetStageByID(ctx, id)
}

func (r *PipelineRepository) DeleteStage(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.PipelineStage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PipelineRepository) ListStages(ctx context.Context, pipelineID int64) ([]domain.PipelineStage, error) {
	var stages []domain.PipelineStage
	err := r.db.WithContext(ctx).
		Where("pipeline_id = ?", pipelineID).
		Order("sort_order ASC, id ASC").
		Find(&stages).Error
	return stages, err
}

// FirstStage returns the canonical entry stage: lowest order, ties broken by
// insertion order.
func (r *PipelineRepository) FirstStage(ctx context.Context, pipelineID int64) (*domain.PipelineStage, error) {
	var s domain.PipelineStage
	err := r.db.WithContext(ctx).
		Where("pipeline_id = ?", pipelineID).
		Order("sort_order ASC, id ASC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// EntryStage resolves where a new deal lands: the stage flagged default, or
// the first stage when none is flagged.
func (r *PipelineRepository) EntryStage(ctx context.Context, pipelineID int64) (*domain.PipelineStage, error) {
	var s domain.PipelineStage
	err := r.db.WithContext(ctx).
		Where("pipeline_id = ? AND is_default = ?", pipelineID, true).
		Order("sort_order ASC, id ASC").
		First(&s).Error
	if err == nil {
		return &s, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return r.FirstStage(ctx, pipelineID)
}

// StageByType finds the pipeline's reserved stage for a sale outcome.
// gorm.ErrRecordNotFound means the pipeline has no such stage.
func (r *PipelineRepository) StageByType(ctx context.Context, pipelineID int64, t domain.StageType) (*domain.PipelineStage, error) {
	var s domain.PipelineStage
	err := r.db.WithContext(ctx).
		Where("pipeline_id = ? AND stage_type = ?", pipelineID, t).
		Order("sort_order ASC, id ASC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PipelineRepository) StageOrderTaken(ctx context.Context, pipelineID int64, order int, excludeStageID int64) (bool, error) {
	var cnt int64
	q := r.db.WithContext(ctx).Model(&domain.PipelineStage{}).
		Where("pipeline_id = ? AND sort_order = ?", pipelineID, order)
	if excludeStageID > 0 {
		q = q.Where("id <> ?", excludeStageID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *PipelineRepository) StageTypeTaken(ctx context.Context, pipelineID int64, t domain.StageType, excludeStageID int64) (bool, error) {
	var cnt int64
	q := r.db.WithContext(ctx).Model(&domain.PipelineStage{}).
		Where("pipeline_id = ? AND stage_type = ?", pipelineID, t)
	if excludeStageID > 0 {
		q = q.Where("id <> ?", excludeStageID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
