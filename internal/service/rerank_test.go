package service

import (
	"fmt"
	"testing"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"

	"github.com/stretchr/testify/assert"
)

func repoWith(id, lang string, topics ...string) *domain.Repo {
	return &domain.Repo{ID: id, FullName: "o/" + id, Language: lang, Topics: topics}
}

func TestDiversify_语言上限(t *testing.T) {
	rr := NewReranker()

	// 前 10 个里同语言最多 2 个，Go 项目占满前排也要被压下去
	var repos []*domain.Repo
	for i := 0; i < 8; i++ {
		repos = append(repos, repoWith(fmt.Sprintf("go%d", i), "Go", fmt.Sprintf("t%d", i)))
	}
	repos = append(repos,
		repoWith("rs1", "Rust", "cli"),
		repoWith("py1", "Python", "ml"),
	)

	out := rr.Diversify(repos, 5)
	assert.Len(t, out, 5)

	goInHead := 0
	for _, r := range out {
		if r.Language == "Go" {
			goInHead++
		}
	}
	// 2 个 Go 之后先轮到 Rust/Python，剩下的槽位由回填补齐
	assert.Equal(t, []string{"go0", "go1", "rs1", "py1", "go2"}, ids(out))
	assert.GreaterOrEqual(t, goInHead, 2)
}

func TestDiversify_话题上限(t *testing.T) {
	rr := NewReranker()

	var repos []*domain.Repo
	for i := 0; i < 6; i++ {
		repos = append(repos, repoWith(fmt.Sprintf("k8s%d", i), fmt.Sprintf("L%d", i), "kubernetes"))
	}
	repos = append(repos, repoWith("db1", "C", "database"))

	out := rr.Diversify(repos, 5)
	assert.Len(t, out, 5)
	// 共享 kubernetes 话题的最多 3 个，第 4 槽轮到 database，
	// 最后一个槽位靠回填 (这时不再管上限)
	assert.Equal(t, []string{"k8s0", "k8s1", "k8s2", "db1", "k8s3"}, ids(out))
}

func TestDiversify_不够数时回填不丢项目(t *testing.T) {
	rr := NewReranker()

	var repos []*domain.Repo
	for i := 0; i < 5; i++ {
		repos = append(repos, repoWith(fmt.Sprintf("go%d", i), "Go", "web"))
	}

	out := rr.Diversify(repos, 5)
	assert.Len(t, out, 5, "被搁置的项目必须回填，不能白白丢掉")
}

func TestDiversify_空输入(t *testing.T) {
	rr := NewReranker()
	assert.Nil(t, rr.Diversify(nil, 10))
	assert.Nil(t, rr.Diversify([]*domain.Repo{repoWith("a", "Go")}, 0))
}

func TestSessionRerank_正负话题(t *testing.T) {
	rr := NewReranker()

	saved := repoWith("saved1", "Go", "kubernetes", "observability")
	skipped := repoWith("skipped1", "PHP", "wordpress")
	byID := map[string]*domain.Repo{
		"saved1":   saved,
		"skipped1": skipped,
	}
	resolve := func(id string) *domain.Repo { return byID[id] }

	recent := []*domain.Interaction{
		{RepoID: "saved1", Action: domain.ActionSave},
		{RepoID: "skipped1", Action: domain.ActionSkip},
	}

	candidates := []*domain.Repo{
		repoWith("c1", "Go", "kubernetes", "cli"),       // 正向命中
		repoWith("c2", "PHP", "wordpress", "templates"), // 负向命中
		repoWith("c3", "Rust", "game"),                  // 毫无关联
	}

	out := rr.SessionRerank(candidates, recent, resolve)

	assert.Equal(t, []string{"c1"}, ids(out), "只留会话分为正的候选")
}

func TestSessionRerank_相似度加成排序(t *testing.T) {
	rr := NewReranker()

	saved := repoWith("saved1", "Go", "kubernetes", "operator", "controller")
	resolve := func(id string) *domain.Repo {
		if id == "saved1" {
			return saved
		}
		return nil
	}
	recent := []*domain.Interaction{{RepoID: "saved1", Action: domain.ActionSave}}

	nearTwin := repoWith("twin", "Go", "kubernetes", "operator")
	partial := repoWith("partial", "Rust", "kubernetes")

	out := rr.SessionRerank([]*domain.Repo{partial, nearTwin}, recent, resolve)

	assert.Len(t, out, 2)
	assert.Equal(t, "twin", out[0].ID, "语言+话题都像的排前面")
}

func TestSessionRerank_无会话信号原样返回(t *testing.T) {
	rr := NewReranker()
	candidates := []*domain.Repo{repoWith("a", "Go", "x"), repoWith("b", "Go", "y")}

	out := rr.SessionRerank(candidates, nil, func(string) *domain.Repo { return nil })
	assert.Equal(t, candidates, out)
}

func ids(repos []*domain.Repo) []string {
	out := make([]string, len(repos))
	for i, r := range repos {
		out[i] = r.ID
	}
	return out
}
