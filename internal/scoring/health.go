package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
)

// 健康评分：原始信号 → 六大支柱 → 0-100 综合分 + 字母等级
// 与用户画像无关，纯信号派生

// 六大支柱的固定权重，总和严格等于 1.0
const (
	weightPopularity    = 0.20
	weightActivity      = 0.25
	weightMaintenance   = 0.20
	weightCommunity     = 0.15
	weightDocumentation = 0.10
	weightMaturity      = 0.10
)

// 未知的可选指标统一退化到中性值，不让 null 污染加权和
const neutralScore = 50

// HealthScorer 健康打分器
type HealthScorer struct {
	nowFunc func() time.Time
}

// NewHealthScorer 创建打分器
func NewHealthScorer() *HealthScorer {
	return &HealthScorer{nowFunc: time.Now}
}

// SetNowFunc 注入时钟 (测试用)
func (h *HealthScorer) SetNowFunc(f func() time.Time) {
	if f != nil {
		h.nowFunc = f
	}
}

// logScale 共享的对数归一映射
// round(100 × (ln(clamp(v,min,max)) − ln(min)) / (ln(max) − ln(min)))，v≤0 时为 0
func logScale(v, min, max float64) int {
	if v <= 0 {
		return 0
	}
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return int(math.Round(100 * (math.Log(v) - math.Log(min)) / (math.Log(max) - math.Log(min))))
}

// Score 计算综合健康分
func (h *HealthScorer) Score(s *domain.HealthSignals) *domain.HealthScore {
	now := h.nowFunc()

	pillars := domain.PillarScores{
		Popularity:    h.popularity(s),
		Activity:      h.activity(s, now),
		Maintenance:   h.maintenance(s),
		Community:     h.community(s),
		Documentation: h.documentation(s),
		Maturity:      h.maturity(s, now),
	}

	overall := int(math.Round(
		float64(pillars.Popularity)*weightPopularity +
			float64(pillars.Activity)*weightActivity +
			float64(pillars.Maintenance)*weightMaintenance +
			float64(pillars.Community)*weightCommunity +
			float64(pillars.Documentation)*weightDocumentation +
			float64(pillars.Maturity)*weightMaturity))

	return &domain.HealthScore{
		FullName: s.FullName,
		Overall:  overall,
		Grade:    Grade(overall),
		Pillars:  pillars,
		Signals:  s,
		Summary:  h.summarize(s, pillars, now),
	}
}

// Grade 综合分到字母等级的固定映射
func Grade(overall int) string {
	switch {
	case overall >= 95:
		return "A+"
	case overall >= 85:
		return "A"
	case overall >= 75:
		return "B+"
	case overall >= 65:
		return "B"
	case overall >= 55:
		return "C+"
	case overall >= 45:
		return "C"
	case overall >= 30:
		return "D"
	default:
		return "F"
	}
}

// popularity 星数/关注者/fork 各自对数归一，按 50/25/25 加权
func (h *HealthScorer) popularity(s *domain.HealthSignals) int {
	stars := logScale(float64(s.Stars), 10, 50000)
	watchers := logScale(float64(s.Watchers), 5, 5000)
	forks := logScale(float64(s.Forks), 5, 10000)
	return int(math.Round(float64(stars)*0.50 + float64(watchers)*0.25 + float64(forks)*0.25))
}

// activity 最近 push 的新鲜度和 52 周提交频率各占一半
func (h *HealthScorer) activity(s *domain.HealthSignals, now time.Time) int {
	recency := 5
	if !s.PushedAt.IsZero() {
		days := now.Sub(s.PushedAt).Hours() / 24
		switch {
		case days <= 7:
			recency = 100
		case days <= 30:
			recency = 85
		case days <= 90:
			recency = 60
		case days <= 180:
			recency = 40
		case days <= 365:
			recency = 20
		default:
			recency = 5
		}
	}

	perWeek := s.CommitsPerWeek()
	var commits int
	switch {
	case perWeek >= 20:
		commits = 100
	case perWeek >= 10:
		commits = 85
	case perWeek >= 5:
		commits = 70
	case perWeek >= 2:
		commits = 55
	case perWeek >= 0.5:
		commits = 35
	case perWeek > 0:
		commits = 20
	default:
		commits = 0
	}

	return int(math.Round(float64(recency)*0.5 + float64(commits)*0.5))
}

// maintenance issue 关闭率和平均关闭时长各占一半，未知退化为中性值
func (h *HealthScorer) maintenance(s *domain.HealthSignals) int {
	closeRate := neutralScore
	if s.IssueCloseRate >= 0 {
		closeRate = int(math.Round(s.IssueCloseRate * 100))
	}

	closeTime := neutralScore
	if s.AvgIssueCloseDays >= 0 {
		switch {
		case s.AvgIssueCloseDays <= 1:
			closeTime = 100
		case s.AvgIssueCloseDays <= 7:
			closeTime = 80
		case s.AvgIssueCloseDays <= 30:
			closeTime = 55
		case s.AvgIssueCloseDays <= 90:
			closeTime = 30
		default:
			closeTime = 10
		}
	}

	return int(math.Round(float64(closeRate)*0.5 + float64(closeTime)*0.5))
}

// community 贡献者数对数归一 (60%) + fork/star 比分桶 (40%)
func (h *HealthScorer) community(s *domain.HealthSignals) int {
	contributors := logScale(float64(s.Contributors), 2, 500)

	ratioScore := 10
	if s.Stars > 0 {
		ratio := float64(s.Forks) / float64(s.Stars)
		switch {
		case ratio >= 0.2:
			ratioScore = 100
		case ratio >= 0.1:
			ratioScore = 80
		case ratio >= 0.05:
			ratioScore = 60
		case ratio >= 0.02:
			ratioScore = 40
		case ratio > 0:
			ratioScore = 25
		}
	}

	return int(math.Round(float64(contributors)*0.6 + float64(ratioScore)*0.4))
}

// documentation 加法计分，封顶 100
func (h *HealthScorer) documentation(s *domain.HealthSignals) int {
	score := 0
	if s.HasReadme {
		score += 50
	}
	if s.HasContributing {
		score += 30
	}
	if len(s.Topics) >= 3 {
		score += 10
	}
	if s.Language != "" {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

// maturity 仓库年龄 (35%) + 发布次数 (35%) + 有无许可证 (30%)
func (h *HealthScorer) maturity(s *domain.HealthSignals, now time.Time) int {
	age := 15
	if !s.CreatedAt.IsZero() {
		days := now.Sub(s.CreatedAt).Hours() / 24
		switch {
		case days >= 1825:
			age = 100
		case days >= 1095:
			age = 85
		case days >= 730:
			age = 70
		case days >= 365:
			age = 50
		case days >= 180:
			age = 30
		}
	}

	var releases int
	switch {
	case s.ReleaseCount >= 50:
		releases = 100
	case s.ReleaseCount >= 20:
		releases = 85
	case s.ReleaseCount >= 10:
		releases = 70
	case s.ReleaseCount >= 5:
		releases = 55
	case s.ReleaseCount >= 1:
		releases = 40
	default:
		releases = 10
	}

	license := 0
	if s.License != "" {
		license = 100
	}

	return int(math.Round(float64(age)*0.35 + float64(releases)*0.35 + float64(license)*0.30))
}

// pillarNames 给摘要和对比用的支柱名
var pillarNames = []string{
	"popularity", "activity", "maintenance", "community", "documentation", "maturity",
}

// PillarValue 按名字取支柱分，compare 的 categoryWinners 靠它遍历
func PillarValue(p domain.PillarScores, name string) int {
	switch name {
	case "popularity":
		return p.Popularity
	case "activity":
		return p.Activity
	case "maintenance":
		return p.Maintenance
	case "community":
		return p.Community
	case "documentation":
		return p.Documentation
	case "maturity":
		return p.Maturity
	}
	return 0
}

// PillarNames 支柱名列表 (固定顺序)
func PillarNames() []string {
	return pillarNames
}

// summarize 生成人类可读摘要：强项 (≥75)、弱项 (<45)、关键原始数据
func (h *HealthScorer) summarize(s *domain.HealthSignals, p domain.PillarScores, now time.Time) string {
	var strengths, weaknesses []string
	for _, name := range pillarNames {
		v := PillarValue(p, name)
		if v >= 75 {
			strengths = append(strengths, name)
		} else if v < 45 {
			weaknesses = append(weaknesses, name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⭐ %d stars, %d forks, %d contributors.", s.Stars, s.Forks, s.Contributors)
	if len(strengths) > 0 {
		fmt.Fprintf(&b, " Strengths: %s.", strings.Join(strengths, ", "))
	}
	if len(weaknesses) > 0 {
		fmt.Fprintf(&b, " Weaknesses: %s.", strings.Join(weaknesses, ", "))
	}
	if !s.PushedAt.IsZero() {
		if days := int(now.Sub(s.PushedAt).Hours() / 24); days > 180 {
			fmt.Fprintf(&b, " ⚠️ No pushes in %d days.", days)
		}
	}
	if s.License == "" {
		b.WriteString(" ⚠️ No license.")
	}
	return b.String()
}

// MinimalFallback 信号抓取失败时的兜底分
// 只根据星数给个低置信度结果，绝不让单个仓库拖垮整批请求
func MinimalFallback(fullName string, stars int) *domain.HealthScore {
	overall := logScale(float64(stars), 10, 50000) / 2
	return &domain.HealthScore{
		FullName: fullName,
		Overall:  overall,
		Grade:    Grade(overall),
		Pillars: domain.PillarScores{
			Popularity:    logScale(float64(stars), 10, 50000),
			Maintenance:   neutralScore,
			Documentation: 0,
		},
		Summary: fmt.Sprintf("⭐ %d stars. ⚠️ Limited data: full health signals unavailable.", stars),
	}
}
