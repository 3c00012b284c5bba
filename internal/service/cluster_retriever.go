package service

import (
	"context"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/common"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/port"
)

// ClusterRetriever 零抓取成本的候选来源：预筛选集合 + 按用户确定性洗牌
// 同一个用户每次拿到同样的相对顺序，不同用户顺序不同，
// 避免"所有选了 frontend 的人看到一模一样的列表"
type ClusterRetriever struct {
	store port.ClusterStore
}

// NewClusterRetriever 创建检索器
func NewClusterRetriever(store port.ClusterStore) *ClusterRetriever {
	return &ClusterRetriever{store: store}
}

// FromCluster 按集合名取候选
// 多拉一倍再过滤排除集，保证排除后还够数
func (cr *ClusterRetriever) FromCluster(ctx context.Context, name string, limit int, exclude map[string]bool, userID string) ([]*domain.Repo, error) {
	members, err := cr.store.GetClusterMembers(ctx, name, limit*2, keys(exclude))
	if err != nil {
		return nil, err
	}
	return cr.finish(members, limit, exclude, userID), nil
}

// ByTags 按标签重叠取候选，重叠计数在存储层已按质量分决胜
func (cr *ClusterRetriever) ByTags(ctx context.Context, tags []string, limit int, exclude map[string]bool, userID string) ([]*domain.Repo, error) {
	members, err := cr.store.QueryByTagOverlap(ctx, tags, limit*2, keys(exclude))
	if err != nil {
		return nil, err
	}
	return cr.finish(members, limit, exclude, userID), nil
}

// finish 公共收尾：二次排除、确定性洗牌、截断
func (cr *ClusterRetriever) finish(members []*domain.ClusterMember, limit int, exclude map[string]bool, userID string) []*domain.Repo {
	repos := make([]*domain.Repo, 0, len(members))
	for _, m := range members {
		if m.Repo == nil || exclude[m.Repo.ID] {
			continue
		}
		repos = append(repos, m.Repo)
	}

	common.StableShuffle(repos, userID)

	if limit > 0 && len(repos) > limit {
		repos = repos[:limit]
	}
	return repos
}

func keys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
