package repository

import (
	"context"
	"time"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"

	"github.com/google/uuid"
)

// 日志簿实现：只追加的交互记录表

// GetSeenRepositoryIDs 该用户所有计入排除集的仓库 id
// save/like/skip/view 都算看过，click-through 不算
func (r *Postgres) GetSeenRepositoryIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.Interaction{}).
		Where("user_id = ? AND action IN ?", userID, []string{
			domain.ActionSave, domain.ActionLike, domain.ActionSkip, domain.ActionView,
		}).
		Distinct("repo_id").
		Pluck("repo_id", &ids).Error
	return ids, err
}

// GetSessionInteractions 一个会话内最近的交互，时间倒序
func (r *Postgres) GetSessionInteractions(ctx context.Context, userID, sessionID string, limit int) ([]*domain.Interaction, error) {
	var interactions []*domain.Interaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&interactions).Error
	return interactions, err
}

// RecordInteraction 追加一条交互，缺 id/时间戳时补齐
func (r *Postgres) RecordInteraction(ctx context.Context, it *domain.Interaction) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Timestamp.IsZero() {
		it.Timestamp = time.Now()
	}
	return r.db.WithContext(ctx).Create(it).Error
}
