package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/common"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/port"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/scoring"

	"golang.org/x/sync/errgroup"
)

// 健康服务：单仓健康、批量对比、替代品推荐
// 信号 30 分钟缓存；抓不全就降级，绝不整批失败

const (
	signalsTTL        = 30 * time.Minute
	compareMinRepos   = 2
	compareMaxRepos   = 5
	alternativesLimit = 10
)

// HealthService 健康评分的编排层
type HealthService struct {
	index  port.RepoIndex
	cache  port.Cache
	scorer *scoring.HealthScorer
	gate   *scoring.QualityGate
}

// NewHealthService 创建健康服务
func NewHealthService(index port.RepoIndex, c port.Cache) *HealthService {
	return &HealthService{
		index:  index,
		cache:  c,
		scorer: scoring.NewHealthScorer(),
		gate:   scoring.NewQualityGate(),
	}
}

// GetHealthScore 单个仓库的综合健康分
// 信号走 30 分钟读穿缓存；信号抓不到时退回只看星数的兜底分
func (h *HealthService) GetHealthScore(ctx context.Context, fullName string) (*domain.HealthScore, error) {
	signals, err := h.fetchSignals(ctx, fullName)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) && appErr.Code == common.ErrCodeNotFound {
			return nil, err
		}
		// 信号拿不到，退回星数兜底
		log.Printf("⚠️ %s 健康信号抓取失败，使用兜底分: %v", fullName, err)
		stars := 0
		if repo, rerr := h.index.GetRepository(ctx, fullName); rerr == nil {
			stars = repo.Stars
		}
		return scoring.MinimalFallback(fullName, stars), nil
	}
	return h.scorer.Score(signals), nil
}

// fetchSignals 读穿缓存的信号抓取
func (h *HealthService) fetchSignals(ctx context.Context, fullName string) (*domain.HealthSignals, error) {
	key := "signals|" + fullName
	if raw, ok := h.cache.Get(ctx, key); ok {
		var cached domain.HealthSignals
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	signals, err := h.index.GetHealthSignals(ctx, fullName)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(signals); err == nil {
		h.cache.Set(ctx, key, raw, signalsTTL)
	}
	return signals, nil
}

// Compare 2-5 个仓库的健康对比
// N 路并发抓取，单个失败降级为兜底分，不拖垮整批
func (h *HealthService) Compare(ctx context.Context, fullNames []string) (*domain.CompareResult, error) {
	if len(fullNames) < compareMinRepos || len(fullNames) > compareMaxRepos {
		return nil, common.NewError(common.ErrCodeInvalidInput,
			fmt.Sprintf("对比需要 %d-%d 个仓库，收到 %d 个", compareMinRepos, compareMaxRepos, len(fullNames)))
	}

	scores := make([]*domain.HealthScore, len(fullNames))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range fullNames {
		i, name := i, name
		g.Go(func() error {
			score, err := h.GetHealthScore(gctx, name)
			if err != nil {
				log.Printf("⚠️ 对比中 %s 评分失败，降级为兜底分: %v", name, err)
				score = scoring.MinimalFallback(name, 0)
			}
			scores[i] = score
			return nil
		})
	}
	_ = g.Wait()

	winners := make(map[string]string)
	for _, pillar := range scoring.PillarNames() {
		best, bestVal := "", -1
		for _, s := range scores {
			if v := scoring.PillarValue(s.Pillars, pillar); v > bestVal {
				best, bestVal = s.FullName, v
			}
		}
		winners[pillar] = best
	}

	overall := scores[0]
	for _, s := range scores[1:] {
		if s.Overall > overall.Overall {
			overall = s
		}
	}
	winners["overall"] = overall.FullName

	var names []string
	for _, s := range scores {
		names = append(names, fmt.Sprintf("%s (%s, %d)", s.FullName, s.Grade, s.Overall))
	}

	return &domain.CompareResult{
		Repos:           scores,
		CategoryWinners: winners,
		Verdict:         fmt.Sprintf("%s 综合健康度最高 (%d, %s)", overall.FullName, overall.Overall, overall.Grade),
		Summary:         strings.Join(names, " · "),
	}, nil
}

// Alternatives 给一个仓库找替代品
// 按话题/语言重叠搜索，过质量闸门后返回
func (h *HealthService) Alternatives(ctx context.Context, fullName string, limit int) ([]*domain.Repo, error) {
	if limit <= 0 {
		limit = alternativesLimit
	}

	origin, err := h.index.GetRepository(ctx, fullName)
	if err != nil {
		return nil, err
	}

	var parts []string
	for i, t := range origin.Topics {
		if i >= 3 {
			break
		}
		parts = append(parts, "topic:"+t)
	}
	if origin.Language != "" {
		parts = append(parts, "language:"+origin.Language)
	}
	if len(parts) == 0 {
		parts = append(parts, strings.Fields(origin.Description)...)
	}
	query := strings.Join(parts, " ") + " stars:>50"

	found, err := h.index.SearchRepositories(ctx, query, "stars", "desc", 30, 1)
	if err != nil {
		return nil, err
	}

	prefs := &domain.UserPreferences{} // 替代品检索与具体用户无关，用默认闸门档位
	var out []*domain.Repo
	for _, r := range found {
		if r.FullName == origin.FullName {
			continue
		}
		if !h.gate.Check(r, prefs).Passed {
			continue
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
