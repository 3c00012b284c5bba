package port

import (
	"context"
	"time"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
)

// RepoIndex (检索台): 外部仓库索引，唯一直接碰数据源的入口
// 搜索、单仓详情、深度健康信号都走它
type RepoIndex interface {
	// 比如: SearchRepositories(ctx, "language:go created:>2026-08-16", "stars", "desc", 30, 2)
	SearchRepositories(ctx context.Context, query, sortBy, order string, perPage, maxPages int) ([]*domain.Repo, error)

	// 按 "owner/repo" 取单个仓库快照，找不到返回 NOT_FOUND
	GetRepository(ctx context.Context, fullName string) (*domain.Repo, error)

	// 抓取深度健康信号 (贡献者/提交活跃度/发布/issue 指标)
	// 部分信号拿不到时返回已知部分，未知指标置 -1
	GetHealthSignals(ctx context.Context, fullName string) (*domain.HealthSignals, error)
}

// ClusterStore (馆藏室): 离线维护的预筛选集合，核心只读
type ClusterStore interface {
	ListClusters(ctx context.Context) ([]*domain.Cluster, error)

	// 按质量分和轮换优先级排序返回成员，排除指定 id
	GetClusterMembers(ctx context.Context, name string, limit int, excludeIDs []string) ([]*domain.ClusterMember, error)

	// 按标签重叠检索，跨集合
	QueryByTagOverlap(ctx context.Context, tags []string, limit int, excludeIDs []string) ([]*domain.ClusterMember, error)
}

// InteractionLog (日志簿): 只追加的用户交互记录
type InteractionLog interface {
	// 返回该用户所有计入"已看过"排除集的仓库 id
	GetSeenRepositoryIDs(ctx context.Context, userID string) ([]string, error)

	// 返回一个会话内最近的交互，按时间倒序，用于会话重排
	GetSessionInteractions(ctx context.Context, userID, sessionID string, limit int) ([]*domain.Interaction, error)

	RecordInteraction(ctx context.Context, it *domain.Interaction) error
}

// PoolStore (仓库保管员): 候选池持久化，每用户一份，保存即替换
type PoolStore interface {
	SavePool(ctx context.Context, pool *domain.RepoPool) error

	// 没有池子返回 (nil, nil)，不算错误
	LoadPool(ctx context.Context, userID string) (*domain.RepoPool, error)
}

// Cache 通用 TTL 缓存，按 (userId|fullName) 维度做键
// 过期和失效都是尽力而为，读到陈旧数据不算正确性问题
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// IntentClassifier 意图分类的兜底通道 (规则判不出来时才问它)
// 失败时调用方退回规则结果，从不致命
type IntentClassifier interface {
	Classify(ctx context.Context, query string) (*domain.Intent, error)
}
