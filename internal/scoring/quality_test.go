package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"

	"github.com/stretchr/testify/assert"
)

func newTestGate() *QualityGate {
	g := NewQualityGate()
	g.SetNowFunc(func() time.Time { return testNow })
	return g
}

func TestQualityGate_星数下限分档(t *testing.T) {
	g := newTestGate()

	tests := []struct {
		name   string
		weight string
		stars  int
		passed bool
	}{
		{"low档5星放行", domain.PopularityLow, 6, true},
		{"low档4星拒绝", domain.PopularityLow, 4, false},
		{"默认档10星", "", 9, false},
		{"medium档20星", domain.PopularityMedium, 19, false},
		{"high档50星", domain.PopularityHigh, 49, false},
		{"high档51星放行", domain.PopularityHigh, 51, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &domain.Repo{
				Name:        "some-tool",
				Description: "A reasonably descriptive project about something useful",
				Stars:       tt.stars,
				Forks:       10,
				Topics:      []string{"tool"},
				PushedAt:    testNow.AddDate(0, 0, -5),
			}
			res := g.Check(repo, &domain.UserPreferences{PopularityWeight: tt.weight})
			assert.Equal(t, tt.passed, res.Passed)
			if !tt.passed {
				assert.Equal(t, 0, res.Score, "硬拒绝必须把分数归零")
				assert.NotEmpty(t, res.Reasons)
			}
		})
	}
}

func TestQualityGate_描述缺失拒绝(t *testing.T) {
	g := newTestGate()
	repo := &domain.Repo{Name: "x", Description: "too short", Stars: 500}
	res := g.Check(repo, &domain.UserPreferences{})
	assert.False(t, res.Passed)
	assert.Contains(t, res.Reasons[0], "Description")
}

func TestQualityGate_高星清单仓库拒绝(t *testing.T) {
	g := newTestGate()

	repo := &domain.Repo{
		Name:        "awesome-x",
		FullName:    "someone/awesome-x",
		Description: "Curated list of awesome X",
		Stars:       45000,
		PushedAt:    testNow.AddDate(0, 0, -1),
	}
	res := g.Check(repo, &domain.UserPreferences{})

	assert.False(t, res.Passed)
	joined := strings.Join(res.Reasons, "; ")
	assert.True(t,
		strings.Contains(joined, "Generic") || strings.Contains(joined, "curated list"),
		"拒绝原因应提到 Generic 或 curated list，实际: %s", joined)
}

func TestQualityGate_低星清单仓库走软打分(t *testing.T) {
	g := newTestGate()

	// 阈值分层：名字像清单但星数不过 1000，不触发硬拒绝
	repo := &domain.Repo{
		Name:        "awesome-tiny",
		Description: "A curated list of tiny personal utilities, kept fresh weekly",
		Stars:       300,
		Forks:       20,
		Topics:      []string{"utilities"},
		PushedAt:    testNow.AddDate(0, 0, -3),
	}
	res := g.Check(repo, &domain.UserPreferences{})
	assert.True(t, res.Passed)
}

func TestQualityGate_企业镜像拒绝与教程豁免(t *testing.T) {
	g := newTestGate()

	mirror := &domain.Repo{
		Name:        "giant-framework",
		FullName:    "google/giant-framework",
		Owner:       "google",
		Description: "An industrial strength framework used by everyone already",
		Stars:       80000,
		PushedAt:    testNow.AddDate(0, 0, -1),
	}
	res := g.Check(mirror, &domain.UserPreferences{})
	assert.False(t, res.Passed)
	assert.Contains(t, res.Reasons[0], "corporate")

	tutorial := &domain.Repo{
		Name:        "styleguide-tutorial",
		FullName:    "google/styleguide-tutorial",
		Owner:       "google",
		Description: "Official tutorial and beginner guide with worked examples for new engineers",
		Stars:       30000,
		Forks:       5000,
		Topics:      []string{"tutorial", "guide", "learning"},
		PushedAt:    testNow.AddDate(0, 0, -2),
	}
	res = g.Check(tutorial, &domain.UserPreferences{})
	assert.True(t, res.Passed, "教程标记豁免企业镜像拒绝")
}

func TestQualityGate_软扣分累计到不及格(t *testing.T) {
	g := newTestGate()

	// 一年没动 (-30) + 没标签 (-10) + 没fork低星 (-10) + 描述弱 (-10) = 40 分
	repo := &domain.Repo{
		Name:        "dusty",
		Description: "an old forgotten experiment here",
		Stars:       30,
		Forks:       0,
		PushedAt:    testNow.AddDate(-2, 0, 0),
	}
	res := g.Check(repo, &domain.UserPreferences{})

	assert.False(t, res.Passed)
	assert.Equal(t, 40, res.Score)
	assert.Contains(t, res.Reasons, "Quality score below threshold")
	assert.Len(t, res.Warnings, 4)
}

func TestQualityGate_硬拒绝单调性(t *testing.T) {
	g := newTestGate()

	// 其他条件再好，硬拒绝命中就绝不放行
	repo := &domain.Repo{
		Name:        "awesome-everything",
		FullName:    "someone/awesome-everything",
		Description: "A curated list of awesome everything with excellent upkeep and great docs",
		Stars:       200000,
		Forks:       30000,
		Topics:      []string{"list", "resources", "curated"},
		PushedAt:    testNow,
	}
	res := g.Check(repo, &domain.UserPreferences{PopularityWeight: domain.PopularityHigh})
	assert.False(t, res.Passed)
	assert.Equal(t, 0, res.Score)
}

func TestClassify(t *testing.T) {
	c := Classify(&domain.Repo{
		Name:        "awesome-go",
		FullName:    "avelino/awesome-go",
		Description: "A curated list of awesome Go frameworks",
	})
	assert.True(t, c.CuratedByName)
	assert.True(t, c.CuratedByDesc)
	assert.True(t, c.Generic())
	assert.False(t, c.Tutorial)

	c = Classify(&domain.Repo{
		Name:        "plain-tool",
		FullName:    "kubernetes/plain-tool",
		Owner:       "kubernetes",
		Description: "Just a helper used inside a big org for mundane chores",
	})
	assert.True(t, c.Corporate)
	assert.False(t, c.CuratedByName)

	c = Classify(&domain.Repo{Name: "x", Description: ""})
	assert.True(t, c.EmptyDesc)
}
