package entity

import "time"

// StockHolding is a share position used to pair covered calls and protective
// puts with their underlying stock.
type StockHolding struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AccountID     uint      `gorm:"not null;index" json:"account_id"`
	Symbol        string    `gorm:"not null" json:"symbol"`
	Shares        int       `gorm:"not null" json:"shares"`
	PurchasePrice float64   `gorm:"not null" json:"purchase_price"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (StockHolding) TableName() string {
	return "stock_holdings"
}
