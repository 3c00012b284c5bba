package service

import (
	"sort"
	"strings"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
)

// 多样性与会话重排
// 多样性走位：同语言、同话题的项目不许霸屏；
// 会话走位：跟着本次会话的 save/skip 信号临时调权

const (
	maxPerLanguageHead = 2  // 前 10 个里同语言上限
	languageHeadWindow = 10 // "前 10 个"的窗口
	maxPerTopic        = 3  // 整个输出里共享同一话题的上限
	recentSavesWindow  = 5  // 取最近几次 save 提正向话题
	recentSkipsWindow  = 10 // 取最近几次 skip 提负向话题
)

// 会话打分的固定权重
const (
	positiveTopicWeight = 0.5
	negativeTopicWeight = 0.3
	similarityWeight    = 0.2
)

// Reranker 对已按 FitScore 排好序的候选做二次排布
type Reranker struct{}

// NewReranker 创建重排器
func NewReranker() *Reranker {
	return &Reranker{}
}

// Diversify 多样性走位
// 顺着分数走，超出语言/话题上限的先搁置不丢弃；
// 走完一遍还不够数，就按分数从搁置堆里回填，这时不再管上限
func (rr *Reranker) Diversify(repos []*domain.Repo, count int) []*domain.Repo {
	if count <= 0 || len(repos) == 0 {
		return nil
	}

	langCount := make(map[string]int)
	topicCount := make(map[string]int)
	picked := make([]*domain.Repo, 0, count)
	var deferred []*domain.Repo

	for _, r := range repos {
		if len(picked) >= count {
			break
		}

		lang := strings.ToLower(r.Language)
		if len(picked) < languageHeadWindow && lang != "" && langCount[lang] >= maxPerLanguageHead {
			deferred = append(deferred, r)
			continue
		}

		capped := false
		for _, t := range r.Topics {
			if topicCount[strings.ToLower(t)] >= maxPerTopic {
				capped = true
				break
			}
		}
		if capped {
			deferred = append(deferred, r)
			continue
		}

		picked = append(picked, r)
		if lang != "" {
			langCount[lang]++
		}
		for _, t := range r.Topics {
			topicCount[strings.ToLower(t)]++
		}
	}

	// 回填：deferred 本身保持分数序
	for _, r := range deferred {
		if len(picked) >= count {
			break
		}
		picked = append(picked, r)
	}
	return picked
}

// SessionRerank 会话走位
// 正向话题来自最近 5 次 save，负向来自最近 10 次 skip；
// 只留会话分为正的候选，降序返回。resolve 负责把交互里的
// repo id 还原成仓库快照 (一般从候选池里查)
func (rr *Reranker) SessionRerank(candidates []*domain.Repo, recent []*domain.Interaction, resolve func(repoID string) *domain.Repo) []*domain.Repo {
	positive := make(map[string]bool)
	negative := make(map[string]bool)
	var lastSave *domain.Repo

	saves, skips := 0, 0
	for _, it := range recent { // recent 已是时间倒序
		switch it.Action {
		case domain.ActionSave, domain.ActionLike:
			if saves >= recentSavesWindow {
				continue
			}
			saves++
			if r := resolve(it.RepoID); r != nil {
				if lastSave == nil {
					lastSave = r
				}
				for _, t := range r.Topics {
					positive[strings.ToLower(t)] = true
				}
			}
		case domain.ActionSkip:
			if skips >= recentSkipsWindow {
				continue
			}
			skips++
			if r := resolve(it.RepoID); r != nil {
				for _, t := range r.Topics {
					negative[strings.ToLower(t)] = true
				}
			}
		}
	}

	if len(positive) == 0 && len(negative) == 0 {
		return candidates
	}

	type scored struct {
		repo  *domain.Repo
		score float64
	}
	var kept []scored
	for _, r := range candidates {
		pos, neg := 0, 0
		for _, t := range r.Topics {
			t = strings.ToLower(t)
			if positive[t] {
				pos++
			}
			if negative[t] {
				neg++
			}
		}
		score := float64(pos)*positiveTopicWeight - float64(neg)*negativeTopicWeight
		if lastSave != nil {
			score += similarity(r, lastSave) * similarityWeight
		}
		if score > 0 {
			kept = append(kept, scored{repo: r, score: score})
		}
	}

	// 同分保持原有 (FitScore) 顺序
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	out := make([]*domain.Repo, len(kept))
	for i, s := range kept {
		out[i] = s.repo
	}
	return out
}

// similarity 语言/话题加权重叠 (0-1)
func similarity(a, b *domain.Repo) float64 {
	var s float64
	if a.Language != "" && strings.EqualFold(a.Language, b.Language) {
		s += 0.3
	}

	if len(b.Topics) > 0 {
		set := make(map[string]bool, len(b.Topics))
		for _, t := range b.Topics {
			set[strings.ToLower(t)] = true
		}
		hits := 0
		for _, t := range a.Topics {
			if set[strings.ToLower(t)] {
				hits++
			}
		}
		s += 0.7 * float64(hits) / float64(len(b.Topics))
	}
	return s
}
