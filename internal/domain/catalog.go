package domain

import "time"

// Registry entities are soft-deleted via the Active flag so that historical
// deals keep pointing at valid rows. This is a different lifecycle from the
// deal aggregate, which is hard-deleted with its dependents.

type LossReason struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" gorm:"not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LossReason) TableName() string { return "loss_reasons" }

type SalePerformanceReason struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" gorm:"not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SalePerformanceReason) TableName() string { return "sale_performance_reasons" }

type MachineBrand struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" gorm:"not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MachineBrand) TableName() string { return "machine_brands" }

type MachineModel struct {
	ID        int64     `json:"id"`
	BrandID   int64     `json:"brand_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MachineModel) TableName() string { return "machine_models" }
