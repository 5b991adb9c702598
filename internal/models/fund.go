package models

import "time"

type PrivateFund struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name              string     `gorm:"uniqueIndex;size:200;not null" json:"name"`
	EstablishmentDate *time.Time `json:"establishment_date"`
	ManagementScale   *float64   `json:"management_scale"` // AUM, in millions
	TeamSize          *int       `json:"team_size"`
	StrategyTags      string     `gorm:"size:500" json:"strategy_tags"` // comma-separated
	Region            string     `gorm:"size:100" json:"region"`
	Keywords          string     `gorm:"size:500" json:"keywords"`

	DueDiligences []DueDiligence `gorm:"foreignKey:FundID" json:"-"`
}
