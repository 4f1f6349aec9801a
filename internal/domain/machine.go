package domain

import "time"

// ClientMachine is equipment recorded against a deal. It participates in the
// cascade delete graph but carries no transition logic.
type ClientMachine struct {
	ID           int64     `json:"id"`
	DealID       int64     `json:"deal_id" gorm:"index;not null"`
	BrandID      *int64    `json:"brand_id,omitempty"`
	ModelID      *int64    `json:"model_id,omitempty"`
	SerialNumber string    `json:"serial_number,omitempty"`
	Year         int       `json:"year,omitempty"`
	Notes        string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ClientMachine) TableName() string { return "client_machines" }
