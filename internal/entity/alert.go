package entity

import "time"

// Alert is the deduplicated, actionable projection of a recommendation.
// The engine only inserts alerts; acknowledging and deleting belong to the
// API surface.
type Alert struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	PositionKey    string     `gorm:"not null;index:idx_alerts_dedup" json:"position_key"`
	Symbol         string     `gorm:"not null" json:"symbol"`
	Strategy       string     `gorm:"not null" json:"strategy"`
	Action         string     `gorm:"not null;index:idx_alerts_dedup" json:"action"`
	Message        string     `gorm:"not null" json:"message"`
	Acknowledged   bool       `gorm:"not null;default:false" json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index:idx_alerts_dedup" json:"created_at"`
}

func (Alert) TableName() string {
	return "alerts"
}
