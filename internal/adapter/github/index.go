package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/common"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// Index 实现了 port.RepoIndex 接口
// 唯一直接访问 GitHub API 的组件，上层全部走它
type Index struct {
	client *github.Client
}

// NewIndex 初始化 GitHub 客户端
// token 为空则匿名访问 (限制 60 次/小时)
func NewIndex(token string) *Index {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return &Index{client: client}
}

// SearchRepositories 调用 Search API，按页拉取
// 单页失败直接返回已有结果 + 错误，调用方自己决定降级
func (idx *Index) SearchRepositories(ctx context.Context, query, sortBy, order string, perPage, maxPages int) ([]*domain.Repo, error) {
	if perPage <= 0 || perPage > 100 {
		perPage = 30
	}
	if maxPages <= 0 {
		maxPages = 1
	}

	var repos []*domain.Repo
	for page := 1; page <= maxPages; page++ {
		opts := &github.SearchOptions{
			Sort:  sortBy,
			Order: order,
			ListOptions: github.ListOptions{
				PerPage: perPage,
				Page:    page,
			},
		}
		result, resp, err := idx.client.Search.Repositories(ctx, query, opts)
		if err != nil {
			if len(repos) > 0 {
				// 部分页已经拿到了，剩下的交给调用方降级
				return repos, nil
			}
			return nil, common.WrapError(common.ErrCodeGitHubAPI, "GitHub 搜索失败", err)
		}
		for _, item := range result.Repositories {
			repos = append(repos, convertRepo(item))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
	}
	return repos, nil
}

// GetRepository 按 "owner/repo" 取单个仓库快照
func (idx *Index) GetRepository(ctx context.Context, fullName string) (*domain.Repo, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	repo, resp, err := idx.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil, common.WrapError(common.ErrCodeNotFound, fmt.Sprintf("仓库 %s 不存在", fullName), err)
		}
		return nil, common.WrapError(common.ErrCodeGitHubAPI, "获取仓库失败", err)
	}
	return convertRepo(repo), nil
}

// GetHealthSignals 抓取深度健康信号
// 基础信息拿不到才算失败；子信号各自独立并发抓，
// 单项失败置为未知 (-1/零值)，不拖垮整个请求
func (idx *Index) GetHealthSignals(ctx context.Context, fullName string) (*domain.HealthSignals, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	base, resp, err := idx.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil, common.WrapError(common.ErrCodeNotFound, fmt.Sprintf("仓库 %s 不存在", fullName), err)
		}
		return nil, common.WrapError(common.ErrCodeGitHubAPI, "获取仓库基础信息失败", err)
	}

	signals := &domain.HealthSignals{
		FullName:          base.GetFullName(),
		Stars:             base.GetStargazersCount(),
		Forks:             base.GetForksCount(),
		Watchers:          base.GetSubscribersCount(),
		OpenIssues:        base.GetOpenIssuesCount(),
		PushedAt:          base.GetPushedAt().Time,
		CreatedAt:         base.GetCreatedAt().Time,
		License:           base.GetLicense().GetSPDXID(),
		Language:          base.GetLanguage(),
		Topics:            base.Topics,
		SizeKB:            base.GetSize(),
		IssueCloseRate:    -1,
		AvgIssueCloseDays: -1,
	}

	// 子信号并发抓取，各写各的字段，互不依赖
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		signals.Contributors = idx.contributorCount(gctx, owner, name)
		return nil
	})
	g.Go(func() error {
		signals.WeeklyCommits = idx.weeklyCommits(gctx, owner, name)
		return nil
	})
	g.Go(func() error {
		signals.ReleaseCount, signals.LastReleaseAt = idx.releaseStats(gctx, owner, name)
		return nil
	})
	g.Go(func() error {
		signals.HasReadme, signals.HasContributing = idx.communityFiles(gctx, owner, name)
		return nil
	})
	g.Go(func() error {
		signals.IssueCloseRate, signals.AvgIssueCloseDays = idx.issueMetrics(gctx, owner, name, signals.OpenIssues)
		return nil
	})

	// 子任务从不返回 error，这里只是等全部结束
	_ = g.Wait()

	return signals, nil
}

// contributorCount 用单页请求 + LastPage 技巧拿贡献者总数
func (idx *Index) contributorCount(ctx context.Context, owner, name string) int {
	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	}
	contributors, resp, err := idx.client.Repositories.ListContributors(ctx, owner, name, opts)
	if err != nil {
		return 0
	}
	if resp != nil && resp.LastPage > 0 {
		return resp.LastPage
	}
	return len(contributors)
}

// weeklyCommits 最近 52 周的每周提交数
func (idx *Index) weeklyCommits(ctx context.Context, owner, name string) []int {
	activity, _, err := idx.client.Repositories.ListCommitActivity(ctx, owner, name)
	if err != nil {
		return nil
	}
	weeks := make([]int, 0, len(activity))
	for _, w := range activity {
		weeks = append(weeks, w.GetTotal())
	}
	return weeks
}

// releaseStats 发布总数和最近一次发布时间
func (idx *Index) releaseStats(ctx context.Context, owner, name string) (int, time.Time) {
	opts := &github.ListOptions{PerPage: 1}
	releases, resp, err := idx.client.Repositories.ListReleases(ctx, owner, name, opts)
	if err != nil || len(releases) == 0 {
		return 0, time.Time{}
	}
	count := 1
	if resp != nil && resp.LastPage > 0 {
		count = resp.LastPage
	}
	return count, releases[0].GetPublishedAt().Time
}

// communityFiles README / CONTRIBUTING 是否存在
func (idx *Index) communityFiles(ctx context.Context, owner, name string) (bool, bool) {
	metrics, _, err := idx.client.Repositories.GetCommunityHealthMetrics(ctx, owner, name)
	if err != nil || metrics.Files == nil {
		return false, false
	}
	return metrics.Files.Readme != nil, metrics.Files.Contributing != nil
}

// issueMetrics 关闭率和近期样本的平均关闭时长，拿不到就是 -1
func (idx *Index) issueMetrics(ctx context.Context, owner, name string, openIssues int) (float64, float64) {
	opts := &github.IssueListByRepoOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 20},
	}
	issues, resp, err := idx.client.Issues.ListByRepo(ctx, owner, name, opts)
	if err != nil {
		return -1, -1
	}

	closedTotal := len(issues)
	if resp != nil && resp.LastPage > 0 {
		closedTotal = resp.LastPage * 20
	}

	closeRate := -1.0
	if closedTotal+openIssues > 0 {
		closeRate = float64(closedTotal) / float64(closedTotal+openIssues)
	}

	var totalDays float64
	sampled := 0
	for _, issue := range issues {
		if issue.IsPullRequest() || issue.ClosedAt == nil || issue.CreatedAt == nil {
			continue
		}
		totalDays += issue.GetClosedAt().Time.Sub(issue.GetCreatedAt().Time).Hours() / 24
		sampled++
	}
	avgDays := -1.0
	if sampled > 0 {
		avgDays = totalDays / float64(sampled)
	}
	return closeRate, avgDays
}

// convertRepo GitHub DTO → Domain 实体
func convertRepo(item *github.Repository) *domain.Repo {
	repo := &domain.Repo{
		ID:          fmt.Sprintf("github-%d", item.GetID()), // 加前缀防止和其他数据源冲突
		Name:        item.GetName(),
		FullName:    item.GetFullName(),
		Owner:       item.GetOwner().GetLogin(),
		URL:         item.GetHTMLURL(),
		Description: item.GetDescription(),
		Stars:       item.GetStargazersCount(),
		Forks:       item.GetForksCount(),
		Language:    item.GetLanguage(),
		Topics:      item.Topics,
		License:     item.GetLicense().GetSPDXID(),
		PushedAt:    item.GetPushedAt().Time,
		CreatedAt:   item.GetCreatedAt().Time,
		UpdatedAt:   item.GetUpdatedAt().Time,
	}
	repo.NormalizeTopics()
	return repo
}

func splitFullName(fullName string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(fullName), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", common.NewError(common.ErrCodeInvalidInput, fmt.Sprintf("非法的仓库全名: %q", fullName))
	}
	return parts[0], parts[1], nil
}
