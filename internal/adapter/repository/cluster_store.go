package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
)

// 馆藏室实现：离线批处理写入的集合表，这里只读

// tagQueryScanCap 标签检索时最多扫描的成员行数，防止全表搬进内存
const tagQueryScanCap = 500

// ListClusters 返回所有启用中的集合
func (r *Postgres) ListClusters(ctx context.Context) ([]*domain.Cluster, error) {
	var clusters []*domain.Cluster
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name").
		Find(&clusters).Error
	return clusters, err
}

// GetClusterMembers 按离线质量分、轮换优先级排序取成员
func (r *Postgres) GetClusterMembers(ctx context.Context, name string, limit int, excludeIDs []string) ([]*domain.ClusterMember, error) {
	q := r.db.WithContext(ctx).
		Where("cluster_name = ?", name)
	if len(excludeIDs) > 0 {
		q = q.Where("repo_id NOT IN ?", excludeIDs)
	}

	var members []*domain.ClusterMember
	err := q.Order("quality_score DESC, rotation_priority DESC").
		Limit(limit).
		Find(&members).Error
	return members, err
}

// QueryByTagOverlap 跨集合按标签重叠检索
// 标签存成 JSON 文本，重叠计数在内存里算 (成员表是离线维护的小表)
func (r *Postgres) QueryByTagOverlap(ctx context.Context, tags []string, limit int, excludeIDs []string) ([]*domain.ClusterMember, error) {
	q := r.db.WithContext(ctx).Model(&domain.ClusterMember{})
	if len(excludeIDs) > 0 {
		q = q.Where("repo_id NOT IN ?", excludeIDs)
	}

	var members []*domain.ClusterMember
	err := q.Order("quality_score DESC").
		Limit(tagQueryScanCap).
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	type scored struct {
		member  *domain.ClusterMember
		overlap int
	}
	var hits []scored
	for _, m := range members {
		if n := tagOverlap(m, tags); n > 0 {
			hits = append(hits, scored{member: m, overlap: n})
		}
	}

	// 重叠数优先，质量分决胜
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].overlap != hits[j].overlap {
			return hits[i].overlap > hits[j].overlap
		}
		return hits[i].member.QualityScore > hits[j].member.QualityScore
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]*domain.ClusterMember, len(hits))
	for i, h := range hits {
		out[i] = h.member
	}
	return out, nil
}

// tagOverlap 一个成员与查询标签的重叠数
// 精确、子串、话题/语言命中都算
func tagOverlap(m *domain.ClusterMember, tags []string) int {
	var haystack []string
	haystack = append(haystack, m.Tags...)
	if m.Repo != nil {
		haystack = append(haystack, m.Repo.Topics...)
		if m.Repo.Language != "" {
			haystack = append(haystack, m.Repo.Language)
		}
	}

	count := 0
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		for _, h := range haystack {
			h = strings.ToLower(h)
			if h == tag || strings.Contains(h, tag) || strings.Contains(tag, h) {
				count++
				break
			}
		}
	}
	return count
}
