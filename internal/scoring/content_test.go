package scoring

import (
	"testing"
	"time"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func newTestContentScorer() *ContentScorer {
	s := NewContentScorer()
	s.SetNowFunc(func() time.Time { return testNow })
	return s
}

func TestContentScorer_ScoreInRange(t *testing.T) {
	s := newTestContentScorer()

	repos := []*domain.Repo{
		{},
		{Name: "x", Description: "short", Stars: 5},
		{
			Name: "hugo", FullName: "gohugoio/hugo", Language: "Go",
			Description: "The world's fastest framework for building websites",
			Stars:       70000, Topics: []string{"go", "static-site-generator"},
			PushedAt: testNow.AddDate(0, 0, -1),
		},
		{Name: "awesome-go", Description: "A curated list of awesome Go frameworks", Stars: 120000},
	}
	prefsList := []*domain.UserPreferences{
		{},
		{TechStack: []string{"go"}, PopularityWeight: domain.PopularityHigh},
		{
			TechStack: []string{"go", "docker"}, Goals: []string{domain.GoalBuilding},
			ProjectTypes: []string{"web-framework"}, ActivityPref: domain.ActivityActive,
			PopularityWeight: domain.PopularityLow,
		},
	}

	for _, r := range repos {
		for _, p := range prefsList {
			score := s.Score(r, p)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}

func TestContentScorer_典型Go项目得高分(t *testing.T) {
	s := newTestContentScorer()

	repo := &domain.Repo{
		Name:        "router",
		FullName:    "someone/router",
		Description: "A lightweight HTTP router for Go",
		Language:    "Go",
		Stars:       300,
		PushedAt:    testNow.AddDate(0, 0, -3),
	}
	prefs := &domain.UserPreferences{
		TechStack:        []string{"go"},
		PopularityWeight: domain.PopularityMedium,
	}

	score := s.Score(repo, prefs)
	assert.GreaterOrEqual(t, score, 50, "语言命中 + 技术栈重叠 + 甜区热度应该拿高分")
}

func TestContentScorer_低信息量仓库短路惩罚(t *testing.T) {
	s := newTestContentScorer()
	prefs := &domain.UserPreferences{TechStack: []string{"go"}}

	curated := &domain.Repo{
		Name:        "awesome-go",
		FullName:    "avelino/awesome-go",
		Description: "A curated list of awesome Go frameworks, libraries and software",
		Language:    "Go",
		Stars:       120000,
	}
	score := s.Score(curated, prefs)
	assert.Equal(t, 15, score, "清单类仓库直接短路到惩罚分")
}

func TestContentScorer_教程类豁免惩罚(t *testing.T) {
	s := newTestContentScorer()
	prefs := &domain.UserPreferences{
		TechStack: []string{"go"},
		Goals:     []string{domain.GoalLearning},
	}

	tutorial := &domain.Repo{
		Name:        "awesome-go-tutorial",
		FullName:    "x/awesome-go-tutorial",
		Description: "A curated list of hands-on Go tutorial projects for beginners to learn from",
		Language:    "Go",
		Stars:       2000,
		Topics:      []string{"tutorial", "learning"},
		PushedAt:    testNow.AddDate(0, 0, -2),
	}
	score := s.Score(tutorial, prefs)
	assert.Greater(t, score, 15, "教程标记应当豁免清单惩罚，走正常打分")
}

func TestContentScorer_空技术栈保持比例(t *testing.T) {
	s := newTestContentScorer()

	repo := &domain.Repo{
		Name:        "router",
		Description: "A lightweight HTTP router with zero dependencies and solid documentation",
		Language:    "Go",
		Stars:       500,
	}

	// 技术栈为空时，该子项从分子和分母同时剔除，
	// 不会因为"没填技术栈"就被强行拉低
	empty := s.Score(repo, &domain.UserPreferences{PopularityWeight: domain.PopularityHigh})
	assert.Greater(t, empty, 30)
}

func TestPopularityScore_甜区曲线(t *testing.T) {
	tests := []struct {
		stars int
		want  float64
	}{
		{0, 0},
		{50, 0.5},
		{100, 1.0},
		{10000, 1.0},
		{30000, 0.7},
		{50000, 0.7},
		{80000, 0.3},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, popularityScore(tt.stars), 1e-9, "stars=%d", tt.stars)
	}
}

func TestPopularityMultiplier(t *testing.T) {
	assert.Equal(t, 0.2, popularityMultiplier(domain.PopularityLow))
	assert.Equal(t, 0.5, popularityMultiplier(domain.PopularityMedium))
	assert.Equal(t, 1.0, popularityMultiplier(domain.PopularityHigh))
	assert.Equal(t, 0.5, popularityMultiplier(""))
}

func TestActivityMatches(t *testing.T) {
	s := newTestContentScorer()

	active := &domain.Repo{PushedAt: testNow.AddDate(0, 0, -2)}
	stale := &domain.Repo{PushedAt: testNow.AddDate(0, 0, -60)}
	hot := &domain.Repo{Stars: 5000, PushedAt: testNow.AddDate(0, 0, -10)}

	assert.True(t, s.activityMatches(active, domain.ActivityActive))
	assert.False(t, s.activityMatches(stale, domain.ActivityActive))
	assert.True(t, s.activityMatches(stale, domain.ActivityStable))
	assert.True(t, s.activityMatches(hot, domain.ActivityTrending))
	assert.True(t, s.activityMatches(stale, domain.ActivityAny))
}

func TestGoalKeywords(t *testing.T) {
	assert.Contains(t, GoalKeywords(domain.GoalLearning), "tutorial")
	assert.Empty(t, GoalKeywords("no-such-goal"))
}
