package repository

import (
	"context"
	"errors"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"

	"gorm.io/gorm"
)

// 用户画像读写 (onboarding 写一次，之后只有用户显式编辑才更新)

// SavePreferences 保存画像 (upsert)
func (r *Postgres) SavePreferences(ctx context.Context, p *domain.UserPreferences) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// GetPreferences 读取画像，不存在返回 (nil, nil)
func (r *Postgres) GetPreferences(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	var p domain.UserPreferences
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
