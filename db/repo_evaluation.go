package db

import (
	"Gin_postgres_redis_media_stock/models"
	"context"
)

// 问卷随提交写入（见 repo_submit.go），这里只给管理端翻阅

type PagedEvaluations struct {
	Total       int64               `json:"total"`
	Evaluations []models.Evaluation `json:"evaluations"`
}

func (r *Repo) ListEvaluations(ctx context.Context, actionType, page, size int) (*PagedEvaluations, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Evaluation{})
	if actionType != 0 {
		tx = tx.Where("action_type = ?", actionType)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var evs []models.Evaluation
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&evs).Error; err != nil {
		return nil, err
	}
	return &PagedEvaluations{Total: total, Evaluations: evs}, nil
}
