package repository

import (
	"context"

	"go-options-advisor/internal/entity"

	"gorm.io/gorm"
)

type recommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a gorm-backed recommendation
// repository.
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) Create(ctx context.Context, rec *entity.Recommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}
