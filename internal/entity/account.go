package entity

import "time"

// Account is a brokerage account whose positions are scanned.
type Account struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Name            string           `gorm:"not null" json:"name"`
	Broker          string           `json:"broker"`
	IsActive        bool             `gorm:"not null;default:true" json:"is_active"`
	OptionPositions []OptionPosition `gorm:"foreignKey:AccountID" json:"option_positions"`
	StockHoldings   []StockHolding   `gorm:"foreignKey:AccountID" json:"stock_holdings"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}
