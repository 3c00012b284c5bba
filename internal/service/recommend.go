package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/common"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/port"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/scoring"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// 推荐服务：候选池编排 (四级兜底检索) + 按画像重打分 + 多样性重排
// 每个用户的池子相互独立，重建幂等，不需要锁

const (
	poolSize  = 100              // 候选池目标大小
	poolFloor = 50               // 低于这个数就继续往下一级兜底
	seenTTL   = 5 * time.Minute  // 已看过集合的缓存时间
	feedStars = 50               // 动态搜索的星数下限
)

// RecommendService 推荐编排层
type RecommendService struct {
	retriever    *ClusterRetriever
	clusters     port.ClusterStore
	index        port.RepoIndex
	interactions port.InteractionLog
	pools        port.PoolStore
	cache        port.Cache
	scorer       *scoring.ContentScorer
	gate         *scoring.QualityGate
	reranker     *Reranker
	nowFunc      func() time.Time
}

// NewRecommendService 创建推荐服务
func NewRecommendService(
	clusters port.ClusterStore,
	index port.RepoIndex,
	interactions port.InteractionLog,
	pools port.PoolStore,
	c port.Cache,
) *RecommendService {
	return &RecommendService{
		retriever:    NewClusterRetriever(clusters),
		clusters:     clusters,
		index:        index,
		interactions: interactions,
		pools:        pools,
		cache:        c,
		scorer:       scoring.NewContentScorer(),
		gate:         scoring.NewQualityGate(),
		reranker:     NewReranker(),
		nowFunc:      time.Now,
	}
}

// SetNowFunc 注入时钟 (测试用)
func (s *RecommendService) SetNowFunc(f func() time.Time) {
	if f != nil {
		s.nowFunc = f
	}
}

// PrefHash 偏好指纹：排序后的画像字段拼接 → 32 位多项式哈希
func PrefHash(p *domain.UserPreferences) string {
	return common.HashString(strings.Join(p.FingerprintParts(), "|"))
}

// poolKey / seenKey 缓存键
func poolKey(userID string) string { return "pool|" + userID }
func seenKey(userID string) string { return "seen|" + userID }

// BuildPool 取或建候选池
// 内存缓存 → 持久化的池子 → 重建，指纹或 TTL 不匹配才往下走
func (s *RecommendService) BuildPool(ctx context.Context, userID string, prefs *domain.UserPreferences) (*domain.RepoPool, error) {
	hash := PrefHash(prefs)
	now := s.nowFunc()

	if raw, ok := s.cache.Get(ctx, poolKey(userID)); ok {
		var cached domain.RepoPool
		if err := json.Unmarshal(raw, &cached); err == nil && !cached.Expired(hash, now) {
			return &cached, nil
		}
	}

	if stored, err := s.pools.LoadPool(ctx, userID); err != nil {
		log.Printf("⚠️ 读取 %s 的持久化池子失败，直接重建: %v", userID, err)
	} else if stored != nil && !stored.Expired(hash, now) {
		s.cachePool(ctx, stored, now)
		return stored, nil
	}

	pool, err := s.rebuildPool(ctx, userID, prefs, hash, now)
	if err != nil {
		return nil, err
	}

	s.cachePool(ctx, pool, now)
	if err := s.pools.SavePool(ctx, pool); err != nil {
		// 持久化失败只影响下次冷启动，池子本身照常可用
		log.Printf("⚠️ 持久化 %s 的池子失败: %v", userID, err)
	}
	return pool, nil
}

func (s *RecommendService) cachePool(ctx context.Context, pool *domain.RepoPool, now time.Time) {
	ttl := domain.PoolTTL - now.Sub(pool.CreatedAt)
	if ttl <= 0 {
		return
	}
	if raw, err := json.Marshal(pool); err == nil {
		s.cache.Set(ctx, poolKey(pool.UserID), raw, ttl)
	}
}

// rebuildPool 四级兜底重建
// 已看过集合和主集合候选并行抓，两者都到位后才做排除过滤
func (s *RecommendService) rebuildPool(ctx context.Context, userID string, prefs *domain.UserPreferences, hash string, now time.Time) (*domain.RepoPool, error) {
	var (
		seenIDs    []string
		rawPrimary []*domain.ClusterMember
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		seenIDs, err = s.getSeenIDs(gctx, userID)
		if err != nil {
			log.Printf("⚠️ 读取 %s 的已看过集合失败，按空集处理: %v", userID, err)
		}
		return nil
	})
	g.Go(func() error {
		if prefs.PrimaryCluster == "" {
			return nil
		}
		var err error
		rawPrimary, err = s.clusters.GetClusterMembers(gctx, prefs.PrimaryCluster, poolSize*2, nil)
		if err != nil {
			log.Printf("⚠️ 主集合 %s 抓取失败，交给下级兜底: %v", prefs.PrimaryCluster, err)
		}
		return nil
	})
	_ = g.Wait()

	exclude := make(map[string]bool, len(seenIDs))
	for _, id := range seenIDs {
		exclude[id] = true
	}

	var (
		collected = make(map[string]bool, poolSize)
		repos     []*domain.Repo
	)
	add := func(batch []*domain.Repo) {
		for _, r := range batch {
			if collected[r.ID] || exclude[r.ID] {
				continue
			}
			// 不变式：进池必须先过质量闸门
			if !s.gate.Check(r, prefs).Passed {
				continue
			}
			collected[r.ID] = true
			exclude[r.ID] = true
			repos = append(repos, r)
		}
	}

	// 一级：主集合 (预抓的那批)，可按画像关键词再收窄
	if len(rawPrimary) > 0 {
		primary := make([]*domain.Repo, 0, len(rawPrimary))
		for _, m := range rawPrimary {
			if m.Repo != nil {
				primary = append(primary, m.Repo)
			}
		}
		common.StableShuffle(primary, userID)
		if narrowed := narrowByPreferences(primary, prefs); len(narrowed)*2 >= poolFloor {
			primary = narrowed
		}
		add(primary)
	}

	// 二级：次要集合补到目标大小
	for _, name := range prefs.SecondaryClusters {
		if len(repos) >= poolSize {
			break
		}
		batch, err := s.retriever.FromCluster(ctx, name, poolSize-len(repos), exclude, userID)
		if err != nil {
			log.Printf("⚠️ 次要集合 %s 抓取失败: %v", name, err)
			continue
		}
		add(batch)
	}

	// 三级：标签检索 (候选还不到下限才触发)
	if len(repos) < poolFloor {
		tags := comprehensiveTags(prefs)
		if len(tags) > 0 {
			batch, err := s.retriever.ByTags(ctx, tags, poolSize-len(repos), exclude, userID)
			if err != nil {
				log.Printf("⚠️ 标签检索失败: %v", err)
			} else {
				add(batch)
			}
		}
	}

	// 三级半：动态搜索 (上游索引)
	if len(repos) < poolFloor {
		if query := dynamicQuery(prefs); query != "" {
			batch, err := s.index.SearchRepositories(ctx, query, "stars", "desc", 30, 2)
			if err != nil {
				log.Printf("⚠️ 动态搜索失败: %v", err)
			} else {
				add(batch)
			}
		}
	}

	// 四级：任挑一个启用中的集合，不按偏好过滤
	if len(repos) == 0 {
		clusters, err := s.clusters.ListClusters(ctx)
		if err != nil {
			log.Printf("⚠️ 集合列表读取失败: %v", err)
		}
		for _, c := range clusters {
			batch, rerr := s.retriever.FromCluster(ctx, c.Name, poolSize, exclude, userID)
			if rerr != nil {
				continue
			}
			add(batch)
			if len(repos) > 0 {
				break
			}
		}
	}

	if len(repos) == 0 {
		return nil, common.NewError(common.ErrCodePoolExhausted,
			fmt.Sprintf("用户 %s 的四级检索全部为空", userID))
	}

	common.StableShuffle(repos, userID)
	if len(repos) > poolSize {
		repos = repos[:poolSize]
	}

	fmt.Printf("✅ 已为用户 %s 重建候选池，共 %d 个项目\n", userID, len(repos))
	return &domain.RepoPool{
		UserID:    userID,
		Repos:     repos,
		PrefHash:  hash,
		CreatedAt: now,
	}, nil
}

// GetRecommendations 给用户出一页推荐
// 即使池子来自缓存，匹配分也按当前画像重算；
// 排除集按调用时刻取，保证新交互立即生效
func (s *RecommendService) GetRecommendations(ctx context.Context, userID string, prefs *domain.UserPreferences, count int) ([]*domain.Repo, error) {
	scored, err := s.scoredCandidates(ctx, userID, prefs)
	if err != nil {
		return nil, err
	}
	return s.reranker.Diversify(scored, count), nil
}

// GetSessionRecommendations 会话内推荐：先常规打分，再按本会话的
// save/skip 信号重排，只留会话分为正的候选
func (s *RecommendService) GetSessionRecommendations(ctx context.Context, userID string, prefs *domain.UserPreferences, sessionID string, count int) ([]*domain.Repo, error) {
	scored, err := s.scoredCandidates(ctx, userID, prefs)
	if err != nil {
		return nil, err
	}

	recent, err := s.interactions.GetSessionInteractions(ctx, userID, sessionID, recentSavesWindow+recentSkipsWindow+10)
	if err != nil {
		log.Printf("⚠️ 会话交互读取失败，退回常规推荐: %v", err)
		return s.reranker.Diversify(scored, count), nil
	}

	byID := make(map[string]*domain.Repo, len(scored))
	for _, r := range scored {
		byID[r.ID] = r
	}
	kept := s.reranker.SessionRerank(scored, recent, func(id string) *domain.Repo {
		return byID[id]
	})
	if len(kept) > count {
		kept = kept[:count]
	}
	return kept, nil
}

// scoredCandidates 公共前半程：池子 → 排除已看过 → 重打匹配分 → 降序
func (s *RecommendService) scoredCandidates(ctx context.Context, userID string, prefs *domain.UserPreferences) ([]*domain.Repo, error) {
	pool, err := s.BuildPool(ctx, userID, prefs)
	if err != nil {
		return nil, err
	}

	seenIDs, err := s.getSeenIDs(ctx, userID)
	if err != nil {
		log.Printf("⚠️ 已看过集合读取失败，按空集处理: %v", err)
	}
	seen := make(map[string]bool, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = true
	}

	var candidates []*domain.Repo
	for _, r := range pool.Repos {
		if seen[r.ID] {
			continue
		}
		r.FitScore = s.scorer.Score(r, prefs)
		candidates = append(candidates, r)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FitScore > candidates[j].FitScore
	})
	return candidates, nil
}

// RecordInteraction 记录交互并按动作做尽力而为的缓存失效
func (s *RecommendService) RecordInteraction(ctx context.Context, it *domain.Interaction) error {
	if it.SessionID == "" {
		it.SessionID = uuid.NewString()
	}
	if err := s.interactions.RecordInteraction(ctx, it); err != nil {
		return common.WrapError(common.ErrCodeDatabase, "记录交互失败", err)
	}

	if it.MarksAsSeen() {
		s.cache.Delete(ctx, seenKey(it.UserID))
	}
	if it.Action == domain.ActionSave || it.Action == domain.ActionLike {
		s.cache.Delete(ctx, poolKey(it.UserID))
	}
	return nil
}

// Trending 近一周新建且有热度的项目 (趋势意图用)
func (s *RecommendService) Trending(ctx context.Context, language string, limit int) ([]*domain.Repo, error) {
	since := s.nowFunc().AddDate(0, 0, -7).Format("2006-01-02")
	query := fmt.Sprintf("created:>%s stars:>%d", since, feedStars)
	if language != "" {
		query = fmt.Sprintf("language:%s %s", language, query)
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.index.SearchRepositories(ctx, query, "stars", "desc", limit, 1)
}

// Search 按压缩后的搜索词走动态搜索，过闸门并按画像打分
func (s *RecommendService) Search(ctx context.Context, terms []string, prefs *domain.UserPreferences, limit int) ([]*domain.Repo, error) {
	if len(terms) == 0 {
		return nil, common.NewError(common.ErrCodeInvalidInput, "搜索词为空")
	}
	if limit <= 0 {
		limit = 10
	}

	query := strings.Join(terms, " ") + fmt.Sprintf(" stars:>%d", feedStars)
	found, err := s.index.SearchRepositories(ctx, query, "stars", "desc", 30, 1)
	if err != nil {
		return nil, err
	}

	var out []*domain.Repo
	for _, r := range found {
		if !s.gate.Check(r, prefs).Passed {
			continue
		}
		r.FitScore = s.scorer.Score(r, prefs)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FitScore > out[j].FitScore
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// getSeenIDs 读穿缓存的已看过集合
func (s *RecommendService) getSeenIDs(ctx context.Context, userID string) ([]string, error) {
	key := seenKey(userID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached []string
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	ids, err := s.interactions.GetSeenRepositoryIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(ids); err == nil {
		s.cache.Set(ctx, key, raw, seenTTL)
	}
	return ids, nil
}

// narrowByPreferences 按画像关键词收窄候选 (一级检索的可选加强)
func narrowByPreferences(repos []*domain.Repo, prefs *domain.UserPreferences) []*domain.Repo {
	keywords := preferenceKeywords(prefs)
	if len(keywords) == 0 {
		return repos
	}
	var out []*domain.Repo
	for _, r := range repos {
		text := strings.ToLower(r.Name + " " + r.Description + " " + strings.Join(r.Topics, " "))
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// preferenceKeywords 技术栈 + 项目类型 + 目标词表的并集
func preferenceKeywords(prefs *domain.UserPreferences) []string {
	var kws []string
	for _, t := range prefs.TechStack {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			kws = append(kws, t)
		}
	}
	for _, t := range prefs.ProjectTypes {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			kws = append(kws, t)
		}
	}
	for _, g := range prefs.Goals {
		kws = append(kws, scoring.GoalKeywords(g)...)
	}
	return kws
}

// comprehensiveTags 三级标签检索的完整标签表:
// 技术栈 + 兴趣集合名 + 项目类型 + 目标衍生词
func comprehensiveTags(prefs *domain.UserPreferences) []string {
	seen := make(map[string]bool)
	var tags []string
	appendTag := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		tags = append(tags, t)
	}

	for _, t := range prefs.TechStack {
		appendTag(t)
	}
	appendTag(prefs.PrimaryCluster)
	for _, c := range prefs.SecondaryClusters {
		appendTag(c)
	}
	for _, t := range prefs.ProjectTypes {
		appendTag(t)
	}
	for _, g := range prefs.Goals {
		for _, kw := range scoring.GoalKeywords(g) {
			appendTag(kw)
		}
	}
	return tags
}

// dynamicQuery 三级半动态搜索的查询串
func dynamicQuery(prefs *domain.UserPreferences) string {
	var parts []string
	for i, t := range prefs.TechStack {
		if i >= 3 {
			break
		}
		parts = append(parts, t)
	}
	if len(parts) == 0 && prefs.PrimaryCluster != "" {
		parts = append(parts, prefs.PrimaryCluster)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + fmt.Sprintf(" stars:>%d", feedStars)
}
