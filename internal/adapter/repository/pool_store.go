package repository

import (
	"context"
	"errors"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"

	"gorm.io/gorm"
)

// 仓库保管员实现：每用户一行，Save 即整体替换

// SavePool 保存候选池 (upsert，对调用方表现为原子替换)
func (r *Postgres) SavePool(ctx context.Context, pool *domain.RepoPool) error {
	return r.db.WithContext(ctx).Save(pool).Error
}

// LoadPool 读取候选池，不存在返回 (nil, nil)
func (r *Postgres) LoadPool(ctx context.Context, userID string) (*domain.RepoPool, error) {
	var pool domain.RepoPool
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&pool).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pool, nil
}
