package models

import "time"

type DueDiligence struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	FundID uint        `gorm:"not null;index" json:"fund_id"`
	Fund   PrivateFund `json:"-"`

	UserID uint `gorm:"not null" json:"user_id"`
	User   User `json:"-"`

	Date     time.Time `gorm:"not null" json:"date"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	FilePath string    `gorm:"size:500" json:"file_path"` // bare reference, never a full path

	Comments []DueDiligenceComment `json:"-"`
}

type DueDiligenceComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	DueDiligenceID uint         `gorm:"not null;index" json:"due_diligence_id"`
	DueDiligence   DueDiligence `json:"-"`

	UserID uint `gorm:"not null" json:"user_id"`
	User   User `json:"-"`

	Content string `gorm:"type:text;not null" json:"content"`
}
