package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRepo_NormalizeTopics(t *testing.T) {
	r := &Repo{
		Language: "Go",
		Topics:   []string{"Web", "go", "  HTTP ", "", "web"},
	}
	r.NormalizeTopics()
	assert.Equal(t, []string{"go", "web", "http"}, r.Topics, "主语言放最前，去重保序")
}

func TestRepo_DaysSincePush(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	r := &Repo{PushedAt: now.AddDate(0, 0, -10)}
	assert.InDelta(t, 10, r.DaysSincePush(now), 0.01)

	none := &Repo{}
	assert.Equal(t, float64(-1), none.DaysSincePush(now))
}

func TestUserPreferences_FingerprintParts(t *testing.T) {
	a := &UserPreferences{
		TechStack:        []string{"rust", "go"},
		Goals:            []string{GoalLearning},
		PopularityWeight: PopularityMedium,
	}
	b := &UserPreferences{
		TechStack:        []string{"go", "rust"},
		Goals:            []string{GoalLearning},
		PopularityWeight: PopularityMedium,
	}
	assert.Equal(t, a.FingerprintParts(), b.FingerprintParts(), "字段顺序不影响指纹")

	c := &UserPreferences{
		TechStack:        []string{"go", "rust"},
		Goals:            []string{GoalBuilding},
		PopularityWeight: PopularityMedium,
	}
	assert.NotEqual(t, a.FingerprintParts(), c.FingerprintParts())
}

func TestInteraction_MarksAsSeen(t *testing.T) {
	for _, action := range []string{ActionSave, ActionLike, ActionSkip, ActionView} {
		it := &Interaction{Action: action}
		assert.True(t, it.MarksAsSeen(), action)
	}
	assert.False(t, (&Interaction{Action: ActionClickThrough}).MarksAsSeen())
}

func TestRepoPool_Expired(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	pool := &RepoPool{UserID: "user_42", PrefHash: "12345", CreatedAt: now}

	assert.False(t, pool.Expired("12345", now.Add(23*time.Hour)))
	assert.True(t, pool.Expired("12345", now.Add(25*time.Hour)), "超过 24 小时失效")
	assert.True(t, pool.Expired("67890", now), "偏好指纹一变立即失效")

	var nilPool *RepoPool
	assert.True(t, nilPool.Expired("12345", now))
}

func TestHealthSignals_CommitsPerWeek(t *testing.T) {
	s := &HealthSignals{WeeklyCommits: []int{10, 0, 5, 5}}
	assert.InDelta(t, 5.0, s.CommitsPerWeek(), 1e-9)

	empty := &HealthSignals{}
	assert.Equal(t, 0.0, empty.CommitsPerWeek())
}
