package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/adapter/cache"
	ghadapter "github.com/mandanajignesh-byte/Repo-finder--sub002/internal/adapter/github"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/service"
)

// 调试小工具：不碰数据库，直接验证 GitHub 适配器和意图路由
func main() {
	repo := flag.String("repo", "gin-gonic/gin", "要体检的仓库全名")
	query := flag.String("q", "compare gin vs echo", "要路由的查询")
	flag.Parse()

	_ = godotenv.Load()

	index := ghadapter.NewIndex(os.Getenv("GITHUB_TOKEN"))
	health := service.NewHealthService(index, cache.NewMemory())
	router := service.NewIntentRouter(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Printf("🔬 抓取 %s 的健康信号...\n", *repo)
	score, err := health.GetHealthScore(ctx, *repo)
	if err != nil {
		log.Fatalf("❌ 失败: %v", err)
	}
	fmt.Printf("✅ %d/100 (%s)\n   %s\n", score.Overall, score.Grade, score.Summary)

	intent := router.Route(ctx, *query)
	fmt.Printf("🧭 %q → %s | terms=%v targets=%v\n", *query, intent.Type, intent.Terms, intent.Targets)
}
