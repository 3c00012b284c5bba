package domain

import (
	"sort"
	"strings"
	"time"
)

// Repo 代表一个候选开源项目的不可变快照
// 除了附加派生分数 (FitScore) 外不做原地修改，刷新靠重新抓取
type Repo struct {
	// 基础信息 (来自 GitHub)
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`      // 例如 "hugo"
	FullName    string    `json:"full_name"` // 例如 "gohugoio/hugo"
	Owner       string    `json:"owner"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics" gorm:"serializer:json"`
	License     string    `json:"license"`
	PushedAt    time.Time `json:"pushed_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 派生分数：当前用户画像下的匹配度 (0-100)，不落库
	FitScore int `json:"fit_score,omitempty" gorm:"-"`
}

// NormalizeTopics 话题标签规范化：去重、保持原顺序、主语言放最前
func (r *Repo) NormalizeTopics() {
	seen := make(map[string]bool, len(r.Topics)+1)
	out := make([]string, 0, len(r.Topics)+1)

	if lang := strings.ToLower(strings.TrimSpace(r.Language)); lang != "" {
		seen[lang] = true
		out = append(out, lang)
	}
	for _, t := range r.Topics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	r.Topics = out
}

// DaysSincePush 距离最后一次 push 的天数，没有 push 记录返回 -1
func (r *Repo) DaysSincePush(now time.Time) float64 {
	if r.PushedAt.IsZero() {
		return -1
	}
	return now.Sub(r.PushedAt).Hours() / 24
}

// 用户目标枚举
const (
	GoalLearning         = "learning"
	GoalBuilding         = "building"
	GoalContributing     = "contributing"
	GoalFindingSolutions = "finding-solutions"
	GoalExploring        = "exploring"
)

// 活跃度偏好
const (
	ActivityActive   = "active"
	ActivityStable   = "stable"
	ActivityTrending = "trending"
	ActivityAny      = "any"
)

// 热门度权重档位
const (
	PopularityLow    = "low"
	PopularityMedium = "medium"
	PopularityHigh   = "high"
)

// UserPreferences 用户画像，onboarding 时创建，只能由用户显式修改
// 每一次打分调用都以它为准
type UserPreferences struct {
	UserID            string   `json:"user_id" gorm:"primaryKey"`
	PrimaryCluster    string   `json:"primary_cluster"`
	SecondaryClusters []string `json:"secondary_clusters" gorm:"serializer:json"`
	TechStack         []string `json:"tech_stack" gorm:"serializer:json"`
	Goals             []string `json:"goals" gorm:"serializer:json"`
	ProjectTypes      []string `json:"project_types" gorm:"serializer:json"`
	ActivityPref      string   `json:"activity_pref"`     // active/stable/trending/any
	PopularityWeight  string   `json:"popularity_weight"` // low/medium/high
	DocImportance     bool     `json:"doc_importance"`    // 是否看重文档质量
	LicensePref       string   `json:"license_pref"`
	SizePref          string   `json:"size_pref"`
	OnboardingDone    bool     `json:"onboarding_done"`
}

// FingerprintParts 参与偏好指纹的字段，排序后拼接
// 指纹一变，缓存的候选池立即作废
func (p *UserPreferences) FingerprintParts() []string {
	stack := append([]string(nil), p.TechStack...)
	goals := append([]string(nil), p.Goals...)
	types := append([]string(nil), p.ProjectTypes...)
	sort.Strings(stack)
	sort.Strings(goals)
	sort.Strings(types)

	parts := make([]string, 0, len(stack)+len(goals)+len(types)+1)
	parts = append(parts, stack...)
	parts = append(parts, goals...)
	parts = append(parts, types...)
	parts = append(parts, p.PopularityWeight)
	return parts
}

// 交互动作枚举
const (
	ActionView         = "view"
	ActionLike         = "like"
	ActionSave         = "save"
	ActionSkip         = "skip"
	ActionClickThrough = "click-through"
)

// Interaction 用户与项目的一次交互，只追加不修改 (账号注销除外)
type Interaction struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"index"`
	RepoID       string    `json:"repo_id"`
	Action       string    `json:"action"`
	SessionID    string    `json:"session_id"`
	Timestamp    time.Time `json:"timestamp"`
	TimeSpentSec int       `json:"time_spent_sec"`
	Position     int       `json:"position"` // 交互发生时在列表中的位置
	Source       string    `json:"source"`   // feed/search/compare 等
}

// MarksAsSeen 该动作是否把项目计入"已看过"排除集
func (i *Interaction) MarksAsSeen() bool {
	switch i.Action {
	case ActionSave, ActionLike, ActionSkip, ActionView:
		return true
	}
	return false
}

// Cluster 离线批处理维护的预筛选主题集合，核心只读
type Cluster struct {
	Name        string `json:"name" gorm:"primaryKey"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// ClusterMember 集合成员，带离线算好的质量分和轮换优先级
type ClusterMember struct {
	ClusterName      string   `json:"cluster_name" gorm:"primaryKey"`
	RepoID           string   `json:"repo_id" gorm:"primaryKey"`
	Repo             *Repo    `json:"repo" gorm:"serializer:json"`
	Tags             []string `json:"tags" gorm:"serializer:json"`
	QualityScore     int      `json:"quality_score"`
	RotationPriority int      `json:"rotation_priority"`
}

// RepoPool 某个用户的物化候选池，同一时刻每用户最多一个
// 偏好指纹变化或超过 24 小时即失效
type RepoPool struct {
	UserID    string    `json:"user_id" gorm:"primaryKey"`
	Repos     []*Repo   `json:"repos" gorm:"serializer:json"`
	PrefHash  string    `json:"pref_hash"`
	CreatedAt time.Time `json:"created_at"`
}

// PoolTTL 候选池的最长存活时间
const PoolTTL = 24 * time.Hour

// Expired 判断候选池对当前偏好指纹是否还可用
func (p *RepoPool) Expired(prefHash string, now time.Time) bool {
	if p == nil {
		return true
	}
	if p.PrefHash != prefHash {
		return true
	}
	return now.Sub(p.CreatedAt) > PoolTTL
}

// HealthSignals 单个项目的原始健康信号，按需抓取，核心不长期保存
// 未知的可选指标用 -1 表示，打分时退化为中性值
type HealthSignals struct {
	FullName          string    `json:"full_name"`
	Stars             int       `json:"stars"`
	Forks             int       `json:"forks"`
	Watchers          int       `json:"watchers"`
	OpenIssues        int       `json:"open_issues"`
	PushedAt          time.Time `json:"pushed_at"`
	CreatedAt         time.Time `json:"created_at"`
	License           string    `json:"license"`
	Language          string    `json:"language"`
	Topics            []string  `json:"topics"`
	Contributors      int       `json:"contributors"`
	IssueCloseRate    float64   `json:"issue_close_rate"`     // 0-1，未知为 -1
	AvgIssueCloseDays float64   `json:"avg_issue_close_days"` // 未知为 -1
	WeeklyCommits     []int     `json:"weekly_commits"`       // 最近 52 周
	ReleaseCount      int       `json:"release_count"`
	LastReleaseAt     time.Time `json:"last_release_at"`
	HasReadme         bool      `json:"has_readme"`
	HasContributing   bool      `json:"has_contributing"`
	SizeKB            int       `json:"size_kb"`
}

// CommitsPerWeek 近 52 周的周均提交数
func (s *HealthSignals) CommitsPerWeek() float64 {
	if len(s.WeeklyCommits) == 0 {
		return 0
	}
	total := 0
	for _, c := range s.WeeklyCommits {
		total += c
	}
	return float64(total) / float64(len(s.WeeklyCommits))
}

// PillarScores 健康分的六大支柱，各 0-100
type PillarScores struct {
	Popularity    int `json:"popularity"`
	Activity      int `json:"activity"`
	Maintenance   int `json:"maintenance"`
	Community     int `json:"community"`
	Documentation int `json:"documentation"`
	Maturity      int `json:"maturity"`
}

// HealthScore 纯派生的综合健康评分，随信号重算，无独立持久化
type HealthScore struct {
	FullName string         `json:"full_name"`
	Overall  int            `json:"overall"`
	Grade    string         `json:"grade"`
	Pillars  PillarScores   `json:"pillars"`
	Signals  *HealthSignals `json:"signals,omitempty"`
	Summary  string         `json:"summary"`
}

// QualityResult 质量闸门的判定结果
// 不通过不算错误，只是正常的过滤结论
type QualityResult struct {
	Passed   bool     `json:"passed"`
	Score    int      `json:"score"`
	Reasons  []string `json:"reasons"`
	Warnings []string `json:"warnings"`
}

// 查询意图枚举
const (
	IntentSearch       = "search"
	IntentCompare      = "compare"
	IntentHealthCheck  = "health-check"
	IntentAlternatives = "alternatives"
	IntentTrending     = "trending"
	IntentUnknown      = "unknown"
)

// Intent 自由文本查询的分类结果
type Intent struct {
	Type    string   `json:"type"`
	Terms   []string `json:"terms"`   // 压缩后的搜索词
	Targets []string `json:"targets"` // compare/health 模式下解析出的 owner/repo
}

// CompareResult 多项目健康对比的输出
type CompareResult struct {
	Repos           []*HealthScore    `json:"repos"`
	CategoryWinners map[string]string `json:"category_winners"`
	Verdict         string            `json:"verdict"`
	Summary         string            `json:"summary"`
}
