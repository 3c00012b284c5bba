package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Router 实现了 port.IntentClassifier 接口
// 只在规则路由判不出意图时兜底，绝不参与打分 (打分必须是确定性的)
type Router struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// 接收 AI 返回的 JSON
type aiIntent struct {
	Type    string   `json:"type"`
	Terms   []string `json:"terms"`
	Targets []string `json:"targets"`
}

// NewRouter 创建 Gemini 兜底路由
func NewRouter(ctx context.Context, apiKey string) (*Router, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel("gemini-2.5-flash-lite")
	// 强制要求返回 JSON，降低解析错误的概率
	model.ResponseMIMEType = "application/json"

	return &Router{
		client: client,
		model:  model,
	}, nil
}

// Classify 把自由文本查询分类成意图
func (r *Router) Classify(ctx context.Context, query string) (*domain.Intent, error) {
	prompt := fmt.Sprintf(`
你是一个 GitHub 仓库发现产品的查询路由器。把下面的用户查询分类：

查询: %q

严格按 JSON 返回，字段：
1. type: search / compare / health-check / alternatives / trending 之一
2. terms: 压缩后的搜索关键词数组 (去掉停用词)
3. targets: 查询里出现的 "owner/repo" 全名数组，没有就给空数组

请直接返回 JSON，不要包含 Markdown 格式标记。
`, query)

	resp, err := r.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("AI 调用失败: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("AI 返回内容为空")
	}

	part := resp.Candidates[0].Content.Parts[0]
	jsonStr, ok := part.(genai.Text)
	if !ok {
		return nil, fmt.Errorf("AI 返回格式错误")
	}

	rawContent := string(jsonStr)

	// 即使 AI 返回 "```json { ... } ```"，也精准抠出中间的 { ... }
	start := strings.Index(rawContent, "{")
	end := strings.LastIndex(rawContent, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("无法提取 JSON, AI 原文: %s", rawContent)
	}

	var res aiIntent
	if err := json.Unmarshal([]byte(rawContent[start:end+1]), &res); err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %w", err)
	}

	intent := &domain.Intent{
		Type:    strings.ToLower(strings.TrimSpace(res.Type)),
		Terms:   res.Terms,
		Targets: res.Targets,
	}
	switch intent.Type {
	case domain.IntentSearch, domain.IntentCompare, domain.IntentHealthCheck,
		domain.IntentAlternatives, domain.IntentTrending:
	default:
		intent.Type = domain.IntentSearch
	}
	return intent, nil
}
