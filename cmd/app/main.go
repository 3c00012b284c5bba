package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/adapter/cache"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/adapter/gemini"
	ghadapter "github.com/mandanajignesh-byte/Repo-finder--sub002/internal/adapter/github"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/adapter/repository"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/port"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/service"
)

func main() {
	// 1. 命令行参数
	mode := flag.String("mode", "feed", "运行模式: feed (推荐) / health (健康) / compare (对比) / ask (自由提问)")
	user := flag.String("user", "", "用户 id (feed 模式必填)")
	query := flag.String("q", "", "仓库全名或自由文本查询")
	repoList := flag.String("repos", "", "对比的仓库全名，逗号分隔 (compare 模式)")
	count := flag.Int("count", 10, "返回条数")
	flag.Parse()

	// 2. 环境变量 (.env 不存在也没关系)
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=123456 dbname=repo_finder port=5432 sslmode=disable"
	}
	store, err := repository.NewPostgres(dsn)
	if err != nil {
		log.Fatalf("❌ DB 初始化失败: %v", err)
	}

	// 3. 缓存：配了 Redis 就共享，否则进程内
	var c port.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c = cache.NewRedis(addr)
	} else {
		c = cache.NewMemory()
	}

	index := ghadapter.NewIndex(os.Getenv("GITHUB_TOKEN"))

	// 4. 意图兜底 (可选)
	var classifier port.IntentClassifier
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		router, err := gemini.NewRouter(context.Background(), key)
		if err != nil {
			log.Printf("⚠️ Gemini 初始化失败，只用规则路由: %v", err)
		} else {
			classifier = router
		}
	}

	recommender := service.NewRecommendService(store, index, store, store, c)
	health := service.NewHealthService(index, c)
	router := service.NewIntentRouter(classifier)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch *mode {
	case "feed":
		runFeed(ctx, store, recommender, *user, *count)
	case "health":
		runHealth(ctx, health, *query)
	case "compare":
		runCompare(ctx, health, splitList(*repoList))
	case "ask":
		runAsk(ctx, router, recommender, health, *query, *count)
	default:
		fmt.Println("❌ 未知模式，请使用 -mode=feed / health / compare / ask")
	}
}

// runFeed 个性化推荐流
func runFeed(ctx context.Context, store *repository.Postgres, svc *service.RecommendService, userID string, count int) {
	if userID == "" {
		fmt.Println("⚠️ feed 模式需要 -user=<用户id>")
		return
	}

	prefs, err := store.GetPreferences(ctx, userID)
	if err != nil {
		log.Fatalf("❌ 读取用户画像失败: %v", err)
	}
	if prefs == nil {
		fmt.Printf("📭 用户 %s 还没有画像，请先完成 onboarding\n", userID)
		return
	}

	repos, err := svc.GetRecommendations(ctx, userID, prefs, count)
	if err != nil {
		log.Fatalf("❌ 推荐失败: %v", err)
	}

	fmt.Printf("🎯 为 %s 推荐 %d 个项目:\n", userID, len(repos))
	for i, r := range repos {
		fmt.Printf("%2d. [%3d分] %s ⭐%d %s\n    %s\n", i+1, r.FitScore, r.FullName, r.Stars, r.Language, r.Description)
	}
}

// runHealth 单仓健康报告
func runHealth(ctx context.Context, svc *service.HealthService, fullName string) {
	if fullName == "" {
		fmt.Println("⚠️ health 模式需要 -q=owner/repo")
		return
	}

	score, err := svc.GetHealthScore(ctx, fullName)
	if err != nil {
		log.Fatalf("❌ 健康评分失败: %v", err)
	}

	fmt.Printf("🏥 %s 健康报告: %d/100 (%s)\n", score.FullName, score.Overall, score.Grade)
	fmt.Printf("   热度 %d | 活跃 %d | 维护 %d | 社区 %d | 文档 %d | 成熟 %d\n",
		score.Pillars.Popularity, score.Pillars.Activity, score.Pillars.Maintenance,
		score.Pillars.Community, score.Pillars.Documentation, score.Pillars.Maturity)
	fmt.Println("   " + score.Summary)
}

// runCompare 多仓对比
func runCompare(ctx context.Context, svc *service.HealthService, names []string) {
	result, err := svc.Compare(ctx, names)
	if err != nil {
		log.Fatalf("❌ 对比失败: %v", err)
	}

	fmt.Println("⚖️ " + result.Verdict)
	fmt.Println("   " + result.Summary)
	for category, winner := range result.CategoryWinners {
		fmt.Printf("   🏆 %s: %s\n", category, winner)
	}
}

// runAsk 自由文本：先路由意图再分流
func runAsk(ctx context.Context, router *service.IntentRouter, recommender *service.RecommendService, health *service.HealthService, query string, count int) {
	if query == "" {
		fmt.Println("⚠️ 请输入你的问题，用大白话就行。")
		fmt.Println("例如: -q 'compare gin vs echo' 或 -q 'trending go projects'")
		return
	}

	intent := router.Route(ctx, query)
	fmt.Printf("🧭 意图: %s | 关键词: %v | 目标: %v\n", intent.Type, intent.Terms, intent.Targets)

	switch intent.Type {
	case domain.IntentCompare:
		runCompare(ctx, health, intent.Targets)
	case domain.IntentHealthCheck:
		if len(intent.Targets) == 0 {
			fmt.Println("⚠️ 没识别出要查哪个仓库 (owner/repo)")
			return
		}
		runHealth(ctx, health, intent.Targets[0])
	case domain.IntentAlternatives:
		if len(intent.Targets) == 0 {
			fmt.Println("⚠️ 没识别出要找谁的替代品 (owner/repo)")
			return
		}
		repos, err := health.Alternatives(ctx, intent.Targets[0], count)
		if err != nil {
			log.Fatalf("❌ 替代品检索失败: %v", err)
		}
		printRepos("🔄 替代品", repos)
	case domain.IntentTrending:
		lang := ""
		if len(intent.Terms) > 0 {
			lang = intent.Terms[0]
		}
		repos, err := recommender.Trending(ctx, lang, count)
		if err != nil {
			log.Fatalf("❌ 趋势检索失败: %v", err)
		}
		printRepos("📈 本周趋势", repos)
	default:
		repos, err := recommender.Search(ctx, intent.Terms, &domain.UserPreferences{}, count)
		if err != nil {
			log.Fatalf("❌ 搜索失败: %v", err)
		}
		printRepos("🔍 搜索结果", repos)
	}
}

func printRepos(title string, repos []*domain.Repo) {
	fmt.Printf("%s (%d 个):\n", title, len(repos))
	for i, r := range repos {
		fmt.Printf("%2d. %s ⭐%d %s\n    %s\n", i+1, r.FullName, r.Stars, r.Language, r.Description)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
