package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Recommendation sources.
const (
	RecommendationSourceRules     = "rules"
	RecommendationSourceAssistant = "assistant"
)

// Recommendation is an advisory snapshot produced by one scan pass. Records
// are append-only; a newer scan supersedes older records for the same
// position rather than mutating them.
type Recommendation struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	PositionID         *uint          `gorm:"index" json:"position_id"`
	PositionKey        string         `gorm:"not null;index" json:"position_key"`
	AccountName        string         `json:"account_name"`
	Symbol             string         `gorm:"not null" json:"symbol"`
	Strategy           string         `gorm:"not null" json:"strategy"`
	Action             string         `gorm:"not null" json:"action"`
	Reason             string         `gorm:"not null" json:"reason"`
	Confidence         string         `json:"confidence"`
	Source             string         `gorm:"not null;default:rules" json:"source"`
	AssistantEvaluated bool           `gorm:"not null;default:false" json:"assistant_evaluated"`
	AssistantReasoning string         `json:"assistant_reasoning"`
	PreliminaryAction  string         `json:"preliminary_action"`
	PreliminaryReason  string         `json:"preliminary_reason"`
	Metrics            datatypes.JSON `gorm:"type:jsonb" json:"metrics"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
