package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// Goal is a measurable target attached to a project.
type Goal struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	ProjectID    uint            `json:"project_id" gorm:"not null;index"`
	Title        string          `json:"title" gorm:"size:255;not null"`
	Description  string          `json:"description" gorm:"type:text"`
	TargetValue  decimal.Decimal `json:"target_value" gorm:"type:decimal(20,2);not null"`
	CurrentValue decimal.Decimal `json:"current_value" gorm:"type:decimal(20,2);not null;default:0"`
	Unit         string          `json:"unit" gorm:"size:50"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Project Project `json:"-" gorm:"foreignKey:ProjectID"`
}

// Progress returns completion in percent, capped at 100 and rounded to two decimals.
func (g *Goal) Progress() decimal.Decimal {
	if !g.TargetValue.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentValue.Div(g.TargetValue).Mul(hundred)
	if p.GreaterThan(hundred) {
		p = hundred
	}
	if p.IsNegative() {
		p = decimal.Zero
	}
	return p.Round(2)
}
