package entity

import (
	"fmt"
	"time"
)

// Option contract types.
const (
	OptionTypeCall = "call"
	OptionTypePut  = "put"
)

// Position sides.
const (
	PositionSideLong  = "long"
	PositionSideShort = "short"
)

// OptionPosition is a single option contract position. Contract terms are
// treated as immutable once an alert references the position; current prices
// and derived metrics are attached transiently during a scan, never stored
// here.
type OptionPosition struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	AccountID        uint      `gorm:"not null;index" json:"account_id"`
	UnderlyingSymbol string    `gorm:"not null" json:"underlying_symbol"`
	Strike           float64   `gorm:"not null" json:"strike"`
	Expiration       time.Time `gorm:"not null" json:"expiration"`
	OptionType       string    `gorm:"not null" json:"option_type"`
	Side             string    `gorm:"not null;default:short" json:"side"`
	Contracts        int       `gorm:"not null" json:"contracts"`
	Premium          float64   `gorm:"not null" json:"premium"`
	IsOpen           bool      `gorm:"not null;default:true" json:"is_open"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (OptionPosition) TableName() string {
	return "option_positions"
}

// Key returns the identity used for alert deduplication.
func (p OptionPosition) Key() string {
	return fmt.Sprintf("%d", p.ID)
}

// IsCall reports whether the contract is a call.
func (p OptionPosition) IsCall() bool {
	return p.OptionType == OptionTypeCall
}

// IsShort reports whether the position was sold to open.
func (p OptionPosition) IsShort() bool {
	return p.Side == PositionSideShort
}
