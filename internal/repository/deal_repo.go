package repository

import (
	"context"
	"time"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

type dealModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Name            string    `gorm:"column:name"`
	LeadID          int64     `gorm:"column:lead_id"`
	PipelineID      int64     `gorm:"column:pipeline_id"`
	StageID         int64     `gorm:"column:stage_id"`
	Order           int       `gorm:"column:sort_order"`
	Value           float64   `gorm:"column:value"`
	QuoteValue      float64   `gorm:"column:quote_value"`
	Status          string    `gorm:"column:status"`
	SaleStatus      string    `gorm:"column:sale_status"`
	SalePerformance *string   `gorm:"column:sale_performance"`
	LostReasonID    *int64    `gorm:"column:lost_reason_id"`
	LostNotes       *string   `gorm:"column:lost_notes"`
	Notes           *string   `gorm:"column:notes"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (dealModel) TableName() string { return "deals" }

func toDomainDeal(m dealModel) *domain.Deal {
	var perf domain.SalePerformance
	if m.SalePerformance != nil {
		perf = domain.SalePerformance(*m.SalePerformance)
	}
	var lostNotes, notes string
	if m.LostNotes != nil {
		lostNotes = *m.LostNotes
	}
	if m.Notes != nil {
		notes = *m.Notes
	}

	return &domain.Deal{
		ID:              m.ID,
		Name:            m.Name,
		LeadID:          m.LeadID,
		PipelineID:      m.PipelineID,
		StageID:         m.StageID,
		Order:           m.Order,
		Value:           m.Value,
		QuoteValue:      m.QuoteValue,
		Status:          domain.DealStatus(m.Status),
		SaleStatus:      domain.SaleStatus(m.SaleStatus),
		SalePerformance: perf,
		LostReasonID:    m.LostReasonID,
		LostNotes:       lostNotes,
		Notes:           notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toDealModel(d *domain.Deal) dealModel {
	var perf, lostNotes, notes *string
	if d.SalePerformance != "" {
		v := string(d.SalePerformance)
		perf = &v
	}
	if d.LostNotes != "" {
		v := d.LostNotes
		lostNotes = &v
	}
	if d.Notes != "" {
		v := d.Notes
		notes = &v
	}

	return dealModel{
		ID:              d.ID,
		Name:            d.Name,
		LeadID:          d.LeadID,
		PipelineID:      d.PipelineID,
		StageID:         d.StageID,
		Order:           d.Order,
		Value:           d.Value,
		QuoteValue:      d.QuoteValue,
		Status:          string(d.Status),
		SaleStatus:      string(d.SaleStatus),
		SalePerformance: perf,
		LostReasonID:    d.LostReasonID,
		LostNotes:       lostNotes,
		Notes:           notes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// StageTransition is the atomic write set of one deal transition. Nil fields
// are left untouched. When ToStageID differs from the deal's current stage,
// the open stage-history row is closed and a new one is opened inside the
// same transaction.
type StageTransition struct {
	ToStageID       *int64
	ToPipelineID    *int64
	SaleStatus      *domain.SaleStatus
	SalePerformance *domain.SalePerformance
	LostReasonID    *int64
	LostNotes       *string
	// ClearOutcome wipes performance/loss fields when a closed deal is
	// reopened for negotiation.
	ClearOutcome bool
	Activity     *domain.LeadActivity
	OccurredAt   time.Time
}

// dealDependents lists every table holding rows owned by a deal, children
// first. DeleteCascade iterates this registry instead of hardcoding the
// deletes so that new dependent entities only need a new entry here.
var dealDependents = []struct {
	model  interface{}
	column string
}{
	{&domain.QuoteItem{}, "deal_id"},
	{&domain.LeadActivity{}, "deal_id"},
	{&domain.ClientMachine{}, "deal_id"},
	{&domain.StageHistory{}, "deal_id"},
}

// Create inserts the deal, opens its first stage-history row and appends the
// creation activity in one transaction.
func (r *DealRepository) Create(ctx context.Context, d *domain.Deal, act *domain.LeadActivity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toDealModel(d)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*d = *toDomainDeal(m)

		h := domain.StageHistory{
			DealID:     d.ID,
			StageID:    d.StageID,
			PipelineID: d.PipelineID,
			EnteredAt:  d.CreatedAt,
		}
		if err := tx.Create(&h).Error; err != nil {
			return err
		}

		if act != nil {
			act.DealID = d.ID
			if err := tx.Create(act).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DealRepository) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	var m dealModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainDeal(m), nil
}

func (r *DealRepository) ListByPipeline(ctx context.Context, pipelineID int64) ([]domain.Deal, error) {
	var models []dealModel
	err := r.db.WithContext(ctx).
		Where("pipeline_id = ?", pipelineID).
		Order("stage_id ASC, sort_order ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Deal, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainDeal(m))
	}
	return out, nil
}

func (r *DealRepository) ListByLead(ctx context.Context, leadID int64) ([]domain.Deal, error) {
	var models []dealModel
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Deal, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainDeal(m))
	}
	return out, nil
}

// Update applies plain field updates (name, notes, operational status, manual
// order). Stage and outcome fields must go through ApplyTransition.
func (r *DealRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Deal, error) {
	res := r.db.WithContext(ctx).Model(&dealModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// ApplyTransition executes one validated transition atomically: deal row
// update, stage-history bookkeeping and the audit activity either all commit
// or none do.
func (r *DealRepository) ApplyTransition(ctx context.Context, dealID int64, tr StageTransition) (*domain.Deal, error) {
	var out *domain.Deal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m dealModel
		if err := lockForUpdate(tx).First(&m, dealID).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"updated_at": tr.OccurredAt}
		if tr.ToPipelineID != nil {
			updates["pipeline_id"] = *tr.ToPipelineID
		}
		moved := tr.ToStageID != nil && *tr.ToStageID != m.StageID
		if tr.ToStageID != nil {
			updates["stage_id"] = *tr.ToStageID
		}
		if tr.SaleStatus != nil {
			updates["sale_status"] = string(*tr.SaleStatus)
		}
		if tr.SalePerformance != nil {
			updates["sale_performance"] = string(*tr.SalePerformance)
		}
		if tr.LostReasonID != nil {
			updates["lost_reason_id"] = *tr.LostReasonID
		}
		if tr.LostNotes != nil {
			updates["lost_notes"] = *tr.LostNotes
		}
		if tr.ClearOutcome {
			updates["sale_performance"] = nil
			updates["lost_reason_id"] = nil
			updates["lost_notes"] = nil
		}

		if err := tx.Model(&dealModel{}).Where("id = ?", dealID).Updates(updates).Error; err != nil {
			return err
		}

		if moved {
			err := tx.Model(&domain.StageHistory{}).
				Where("deal_id = ? AND left_at IS NULL", dealID).
				Update("left_at", tr.OccurredAt).Error
			if err != nil {
				return err
			}

			pipelineID := m.PipelineID
			if tr.ToPipelineID != nil {
				pipelineID = *tr.ToPipelineID
			}
			h := domain.StageHistory{
				DealID:     dealID,
				StageID:    *tr.ToStageID,
				PipelineID: pipelineID,
				EnteredAt:  tr.OccurredAt,
			}
			if err := tx.Create(&h).Error; err != nil {
				return err
			}
		}

		if tr.Activity != nil {
			tr.Activity.DealID = dealID
			if err := tx.Create(tr.Activity).Error; err != nil {
				return err
			}
		}

		var fresh dealModel
		if err := tx.First(&fresh, dealID).Error; err != nil {
			return err
		}
		out = toDomainDeal(fresh)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCascade removes the deal's dependents (children first) and then the
// deal itself in one transaction. Cascading lives here rather than in
// database constraints because not every dependent table declares one.
func (r *DealRepository) DeleteCascade(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dep := range dealDependents {
			if err := tx.Where(dep.column+" = ?", id).Delete(dep.model).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&dealModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SetValue overrides both cached totals, used when a quotation is selected as
// the deal's value.
func (r *DealRepository) SetValue(ctx context.Context, id int64, value, quoteValue float64) error {
	res := r.db.WithContext(ctx).Model(&dealModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"value":       value,
		"quote_value": quoteValue,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DealRepository) CountByStage(ctx context.Context, stageID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&dealModel{}).Where("stage_id = ?", stageID).Count(&cnt).Error
	return cnt, err
}

func (r *DealRepository) CountByPipeline(ctx context.Context, pipelineID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&dealModel{}).Where("pipeline_id = ?", pipelineID).Count(&cnt).Error
	return cnt, err
}

// StageSummary is one kanban column aggregate.
type StageSummary struct {
	StageID    int64   `json:"stage_id"`
	StageName  string  `json:"stage_name"`
	Order      int     `json:"order"`
	DealCount  int64   `json:"deal_count"`
	TotalValue float64 `json:"total_value"`
}

func (r *DealRepository) StageSummaries(ctx context.Context, pipelineID int64) ([]StageSummary, error) {
	var rows []StageSummary
	q := `
SELECT s.id AS stage_id,
       s.name AS stage_name,
       s.sort_order AS "order",
       COUNT(d.id) AS deal_count,
       COALESCE(SUM(d.quote_value), 0) AS total_value
FROM pipeline_stages s
LEFT JOIN deals d ON d.stage_id = s.id
WHERE s.pipeline_id = ?
GROUP BY s.id, s.name, s.sort_order
ORDER BY s.sort_order ASC, s.id ASC
`
	err := r.db.WithContext(ctx).Raw(q, pipelineID).Scan(&rows).Error
	return rows, err
}

func (r *DealRepository) CountBySaleStatus(ctx context.Context, pipelineID int64) (map[domain.SaleStatus]int64, error) {
	type row struct {
		SaleStatus string
		Cnt        int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&dealModel{}).
		Select("sale_status, COUNT(*) AS cnt").
		Where("pipeline_id = ?", pipelineID).
		Group("sale_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[domain.SaleStatus]int64, len(rows))
	for _, r := range rows {
		out[domain.SaleStatus(r.SaleStatus)] = r.Cnt
	}
	return out, nil
}
