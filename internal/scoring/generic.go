package scoring

import (
	"strings"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
)

// 低信息量仓库的统一判定入口
// 内容打分的惩罚路径和质量闸门的硬拒绝共用这一份启发式，
// 星数阈值属于分层参数，由调用方传入，不在这里写死

// curatedNameMarkers "awesome 清单"类仓库的名字特征
var curatedNameMarkers = []string{
	"awesome-",
	"awesome_",
	"-awesome",
	"curated-",
}

// curatedDescMarkers 描述里的清单特征
var curatedDescMarkers = []string{
	"curated list",
	"awesome list",
	"a collection of",
	"list of awesome",
}

// corporateOwners 高星企业官方仓库的 owner 列表
// 这些仓库本身质量不差，但对个性化推荐是噪音 (谁都认识 kubernetes)
var corporateOwners = map[string]bool{
	"google":     true,
	"microsoft":  true,
	"facebook":   true,
	"meta":       true,
	"apple":      true,
	"amazon":     true,
	"aws":        true,
	"netflix":    true,
	"alibaba":    true,
	"tencent":    true,
	"bytedance":  true,
	"kubernetes": true,
	"apache":     true,
}

// TutorialMarkers 教程/学习类特征，命中即豁免上面的惩罚
var TutorialMarkers = []string{
	"tutorial",
	"learning",
	"learn-",
	"course",
	"exercise",
	"example",
	"beginner",
	"roadmap",
	"guide",
	"handbook",
	"interview",
	"practice",
}

// GenericClass 一个仓库命中的低信息量特征
type GenericClass struct {
	CuratedByName bool // 名字像 awesome 清单
	CuratedByDesc bool // 描述像 awesome 清单
	Corporate     bool // 知名企业/基金会官方仓库
	EmptyDesc     bool // 描述近乎为空
	Tutorial      bool // 教程/学习类，豁免标记
}

// Generic 是否命中任一低信息量特征 (不含豁免)
func (c GenericClass) Generic() bool {
	return c.CuratedByName || c.CuratedByDesc || c.Corporate || c.EmptyDesc
}

// Classify 对仓库做一次低信息量特征判定
func Classify(r *domain.Repo) GenericClass {
	name := strings.ToLower(r.Name)
	full := strings.ToLower(r.FullName)
	desc := strings.ToLower(r.Description)

	var c GenericClass

	if name == "awesome" {
		c.CuratedByName = true
	}
	for _, m := range curatedNameMarkers {
		if strings.Contains(name, m) || strings.Contains(full, m) {
			c.CuratedByName = true
			break
		}
	}
	for _, m := range curatedDescMarkers {
		if strings.Contains(desc, m) {
			c.CuratedByDesc = true
			break
		}
	}

	owner := strings.ToLower(r.Owner)
	if owner == "" {
		if i := strings.Index(full, "/"); i > 0 {
			owner = full[:i]
		}
	}
	c.Corporate = corporateOwners[owner]

	c.EmptyDesc = len(strings.TrimSpace(r.Description)) < 10

	c.Tutorial = matchesAny(name, TutorialMarkers) ||
		matchesAny(desc, TutorialMarkers) ||
		topicsMatchAny(r.Topics, TutorialMarkers)

	return c
}

func matchesAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func topicsMatchAny(topics, markers []string) bool {
	for _, t := range topics {
		if matchesAny(strings.ToLower(t), markers) {
			return true
		}
	}
	return false
}
