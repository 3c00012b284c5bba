package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
)

// 质量闸门：两段式过滤
// 第一段硬拒绝把明显垃圾直接挡掉，第二段从 100 往下扣软分，
// 低于及格线 (50) 同样不放行。任何仓库进入候选池前必须过这道闸门

// 硬拒绝的星数分层阈值
// 清单类名字 1k / 清单类描述 5k / 企业镜像 10k，属于有意的分层而非漂移
const (
	curatedNameStarCap  = 1000
	curatedDescStarCap  = 5000
	corporateStarCap    = 10000
	qualityPassingScore = 50
)

// QualityGate 候选池入口过滤器
type QualityGate struct {
	nowFunc func() time.Time
}

// NewQualityGate 创建闸门
func NewQualityGate() *QualityGate {
	return &QualityGate{nowFunc: time.Now}
}

// SetNowFunc 注入时钟 (测试用)
func (g *QualityGate) SetNowFunc(f func() time.Time) {
	if f != nil {
		g.nowFunc = f
	}
}

// starFloor 星数下限按热门度偏好分档
func starFloor(weight string) int {
	switch weight {
	case domain.PopularityLow:
		return 5
	case domain.PopularityMedium:
		return 20
	case domain.PopularityHigh:
		return 50
	default:
		return 10
	}
}

// Check 执行闸门判定
// 硬拒绝命中时 score 归零，软扣分只产生 warning
func (g *QualityGate) Check(r *domain.Repo, p *domain.UserPreferences) *domain.QualityResult {
	res := &domain.QualityResult{Passed: true, Score: 100}

	// --- 第一段：硬拒绝，命中即出局 ---

	if floor := starFloor(p.PopularityWeight); r.Stars < floor {
		return reject(res, fmt.Sprintf("Star count %d below minimum %d", r.Stars, floor))
	}

	if len(strings.TrimSpace(r.Description)) < 20 {
		return reject(res, "Description missing or too short")
	}

	class := Classify(r)
	if (class.CuratedByName && r.Stars > curatedNameStarCap) ||
		(class.CuratedByDesc && r.Stars > curatedDescStarCap) {
		return reject(res, "Generic curated list repository")
	}

	if class.Corporate && r.Stars > corporateStarCap && !class.Tutorial {
		return reject(res, "High-profile corporate repository")
	}

	// --- 第二段：软扣分 ---

	days := r.DaysSincePush(g.nowFunc())
	switch {
	case days > 365:
		res.Score -= 30
		res.Warnings = append(res.Warnings, "No pushes for over a year")
	case days > 180:
		res.Score -= 15
		res.Warnings = append(res.Warnings, "No pushes for over six months")
	}

	if len(r.Topics) == 0 {
		res.Score -= 10
		res.Warnings = append(res.Warnings, "No topics or tags")
	}

	if r.Forks == 0 && r.Stars < 50 {
		res.Score -= 10
		res.Warnings = append(res.Warnings, "No forks and low star count")
	}

	if len(strings.TrimSpace(r.Description)) < 60 {
		res.Score -= 10
		res.Warnings = append(res.Warnings, "Weak description")
	}

	if res.Score < qualityPassingScore {
		res.Passed = false
		res.Reasons = append(res.Reasons, "Quality score below threshold")
	}
	return res
}

func reject(res *domain.QualityResult, reason string) *domain.QualityResult {
	res.Passed = false
	res.Score = 0
	res.Reasons = append(res.Reasons, reason)
	return res
}
