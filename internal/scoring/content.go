package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
)

// 内容匹配打分：一个 (仓库, 用户画像) 对 → 0-100
// 纯函数，无副作用，权重全部手写、可解释

// 各子项的满分配额
const (
	budgetTechStack  = 30
	budgetLanguage   = 20
	budgetGoals      = 15
	budgetProject    = 10
	budgetActivity   = 10
	budgetDocs       = 5
	budgetPopularity = 10
)

// genericPenalty 低信息量仓库的短路惩罚系数，最终得分 = 系数 × 50
const genericPenalty = 0.3

// goalKeywords 每个用户目标对应的特征词表
var goalKeywords = map[string][]string{
	domain.GoalLearning: {
		"tutorial", "example", "guide", "course", "learn", "beginner", "handbook",
	},
	domain.GoalBuilding: {
		"framework", "library", "boilerplate", "starter", "template", "sdk", "toolkit",
	},
	domain.GoalContributing: {
		"good-first-issue", "help-wanted", "hacktoberfest", "contribution", "community", "open-source",
	},
	domain.GoalFindingSolutions: {
		"tool", "cli", "utility", "automation", "plugin", "integration", "self-hosted",
	},
	domain.GoalExploring: {
		"experimental", "research", "prototype", "showcase", "demo", "playground",
	},
}

// GoalKeywords 某个目标的特征词表 (副本)，候选检索也会用它扩标签
func GoalKeywords(goal string) []string {
	words, ok := goalKeywords[strings.ToLower(goal)]
	if !ok {
		return nil
	}
	return append([]string(nil), words...)
}

// ContentScorer 内容匹配打分器
type ContentScorer struct {
	nowFunc func() time.Time // 便于测试注入当前时间
}

// NewContentScorer 创建打分器
func NewContentScorer() *ContentScorer {
	return &ContentScorer{nowFunc: time.Now}
}

// SetNowFunc 注入时钟 (测试用)
func (s *ContentScorer) SetNowFunc(f func() time.Time) {
	if f != nil {
		s.nowFunc = f
	}
}

// Score 计算匹配度
// 低信息量仓库直接短路到惩罚分，教程/学习类豁免；
// 其余按子项加权累计，空的画像维度同时从分子和分母里剔除，保持比例
func (s *ContentScorer) Score(r *domain.Repo, p *domain.UserPreferences) int {
	class := Classify(r)
	if class.Generic() && !class.Tutorial {
		return int(math.Round(genericPenalty * 50))
	}

	var earned, possible float64

	if len(p.TechStack) > 0 {
		possible += budgetTechStack + budgetLanguage
		earned += budgetTechStack * techStackOverlap(r, p.TechStack)
		if languageMatches(r.Language, p.TechStack) {
			earned += budgetLanguage
		}
	}

	if len(p.Goals) > 0 {
		possible += budgetGoals
		earned += budgetGoals * keywordStrength(r, p.Goals, goalKeywords)
	}

	if len(p.ProjectTypes) > 0 {
		possible += budgetProject
		earned += budgetProject * projectTypeStrength(r, p.ProjectTypes)
	}

	if p.ActivityPref != "" {
		possible += budgetActivity
		if s.activityMatches(r, p.ActivityPref) {
			earned += budgetActivity
		}
	}

	possible += budgetDocs
	earned += budgetDocs * descriptionQuality(r.Description)

	possible += budgetPopularity
	earned += budgetPopularity * popularityScore(r.Stars) * popularityMultiplier(p.PopularityWeight)

	if possible == 0 {
		return 0
	}
	return int(math.Round(earned / possible * 100))
}

// techStackOverlap 技术栈标签命中比例 (0-1)
// 话题精确/子串命中、语言命中、名字描述提及都算
func techStackOverlap(r *domain.Repo, stack []string) float64 {
	if len(stack) == 0 {
		return 0
	}
	name := strings.ToLower(r.Name)
	desc := strings.ToLower(r.Description)
	lang := strings.ToLower(r.Language)

	matched := 0
	for _, tag := range stack {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if tag == lang || topicMatches(r.Topics, tag) ||
			strings.Contains(name, tag) || strings.Contains(desc, tag) {
			matched++
		}
	}
	return float64(matched) / float64(len(stack))
}

func topicMatches(topics []string, tag string) bool {
	for _, t := range topics {
		t = strings.ToLower(t)
		if t == tag || strings.Contains(t, tag) || strings.Contains(tag, t) {
			return true
		}
	}
	return false
}

func languageMatches(language string, stack []string) bool {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return false
	}
	for _, tag := range stack {
		if strings.ToLower(strings.TrimSpace(tag)) == lang {
			return true
		}
	}
	return false
}

// keywordStrength 目标词表命中强度 (0-1)
// 对每个目标算命中词占比，取各目标中的最大值：
// 强命中一个目标好过弱命中一堆
func keywordStrength(r *domain.Repo, selected []string, table map[string][]string) float64 {
	text := repoText(r)
	best := 0.0
	for _, key := range selected {
		words, ok := table[strings.ToLower(key)]
		if !ok || len(words) == 0 {
			continue
		}
		hits := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				hits++
			}
		}
		strength := float64(hits) / float64(len(words))
		// 命中两个词以上视为强信号，饱和处理
		if hits >= 2 {
			strength = math.Min(1.0, strength*2)
		}
		if strength > best {
			best = strength
		}
	}
	return best
}

// projectTypeStrength 项目类型命中强度 (0-1)
// 类型名本身和它的连字符切片都当关键词用
func projectTypeStrength(r *domain.Repo, types []string) float64 {
	text := repoText(r)
	best := 0.0
	for _, pt := range types {
		pt = strings.ToLower(strings.TrimSpace(pt))
		if pt == "" {
			continue
		}
		words := append([]string{pt}, strings.Split(pt, "-")...)
		hits := 0
		counted := 0
		for _, w := range words {
			if len(w) < 3 {
				continue
			}
			counted++
			if strings.Contains(text, w) {
				hits++
			}
		}
		if counted == 0 {
			continue
		}
		strength := float64(hits) / float64(counted)
		if strength > best {
			best = strength
		}
	}
	return best
}

func repoText(r *domain.Repo) string {
	return strings.ToLower(r.Name + " " + r.Description + " " + strings.Join(r.Topics, " "))
}

// activityMatches 活跃度偏好是否命中
// 分桶: push < 7 天为 active，> 30 天为 stable，星数 > 1000 为 trending
func (s *ContentScorer) activityMatches(r *domain.Repo, pref string) bool {
	if pref == domain.ActivityAny {
		return true
	}
	days := r.DaysSincePush(s.nowFunc())
	switch pref {
	case domain.ActivityActive:
		return days >= 0 && days < 7
	case domain.ActivityStable:
		return days > 30
	case domain.ActivityTrending:
		return r.Stars > 1000
	}
	return false
}

// descriptionQuality 描述长度做文档质量的粗糙代理 (0-1)
func descriptionQuality(desc string) float64 {
	n := len(strings.TrimSpace(desc))
	if n == 0 {
		return 0
	}
	return math.Min(1.0, float64(n)/150)
}

// popularityScore 星数甜区曲线
// 太小没信号，太大是人尽皆知的巨无霸，推荐价值反而低
func popularityScore(stars int) float64 {
	switch {
	case stars <= 0:
		return 0
	case stars < 100:
		return float64(stars) / 100
	case stars <= 10000:
		return 1.0
	case stars <= 50000:
		return 0.7
	default:
		return 0.3
	}
}

// popularityMultiplier 用户对热门度的在意程度
func popularityMultiplier(weight string) float64 {
	switch weight {
	case domain.PopularityLow:
		return 0.2
	case domain.PopularityHigh:
		return 1.0
	default: // medium 及未设置
		return 0.5
	}
}
