package service

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"
	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/port"
)

// 意图路由：自由文本 → {search, compare, health-check, alternatives, trending}
// 规则表驱动，规则按序匹配、各自可测；
// 规则判不出来且配了 LLM 兜底时才问一次 AI

// intentRule 一条有序匹配规则
type intentRule struct {
	pattern *regexp.Regexp
	intent  string
}

// 规则顺序有讲究：compare 的触发词 (vs) 常和别的词共存，放最前
var intentRules = []intentRule{
	{regexp.MustCompile(`\b(compare|vs\.?|versus|difference between)\b`), domain.IntentCompare},
	{regexp.MustCompile(`\b(health|healthy|quality|maintained|maintenance|abandoned|dead|alive)\b`), domain.IntentHealthCheck},
	{regexp.MustCompile(`\b(alternative|alternatives|similar to|instead of|replacement|substitute)\b`), domain.IntentAlternatives},
	{regexp.MustCompile(`\b(trending|popular|hot|rising|this week|this month)\b`), domain.IntentTrending},
	{regexp.MustCompile(`\b(find|search|looking for|show me|recommend|need)\b`), domain.IntentSearch},
}

// repoNamePattern 查询里出现的 "owner/repo" 全名
var repoNamePattern = regexp.MustCompile(`[A-Za-z0-9][\w.-]*/[A-Za-z0-9][\w.-]*`)

// stopWords 提取搜索词时丢掉的噪音
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "i": true, "me": true, "my": true,
	"is": true, "are": true, "was": true, "be": true, "to": true, "of": true,
	"in": true, "on": true, "for": true, "with": true, "and": true, "or": true,
	"that": true, "this": true, "it": true, "do": true, "does": true,
	"can": true, "could": true, "would": true, "should": true, "you": true,
	"what": true, "which": true, "how": true, "some": true, "any": true,
	"good": true, "best": true, "nice": true, "please": true, "want": true,
	"repo": true, "repos": true, "repository": true, "repositories": true,
	"project": true, "projects": true, "library": true, "libraries": true,
	"github": true,
}

// triggerWords 已经被意图规则消费掉的词，不进搜索词
var triggerWords = map[string]bool{
	"compare": true, "vs": true, "versus": true, "difference": true, "between": true,
	"health": true, "healthy": true, "quality": true, "maintained": true,
	"maintenance": true, "abandoned": true, "dead": true, "alive": true,
	"alternative": true, "alternatives": true, "similar": true, "instead": true,
	"replacement": true, "substitute": true,
	"trending": true, "popular": true, "hot": true, "rising": true,
	"find": true, "search": true, "looking": true, "show": true,
	"recommend": true, "need": true, "like": true,
}

var nonWordPattern = regexp.MustCompile(`[^\w\s/.-]+`)

// IntentRouter 规则路由器，fallback 可以为 nil
type IntentRouter struct {
	fallback port.IntentClassifier
}

// NewIntentRouter 创建路由器
func NewIntentRouter(fallback port.IntentClassifier) *IntentRouter {
	return &IntentRouter{fallback: fallback}
}

// Route 对查询分类并提取紧凑搜索词
func (ir *IntentRouter) Route(ctx context.Context, query string) *domain.Intent {
	normalized := strings.ToLower(strings.TrimSpace(query))
	intent := &domain.Intent{Type: domain.IntentUnknown}

	if normalized == "" {
		return intent
	}

	intent.Targets = repoNamePattern.FindAllString(query, -1)

	for _, rule := range intentRules {
		if rule.pattern.MatchString(normalized) {
			intent.Type = rule.intent
			break
		}
	}

	intent.Terms = extractTerms(normalized)

	// 没命中任何规则但有 "owner/repo"，基本就是问健康
	if intent.Type == domain.IntentUnknown && len(intent.Targets) > 0 {
		intent.Type = domain.IntentHealthCheck
	}

	// 还有搜索词就当普通搜索；彻底判不出来才问 LLM
	if intent.Type == domain.IntentUnknown {
		if len(intent.Terms) > 0 {
			intent.Type = domain.IntentSearch
		} else if ir.fallback != nil {
			if aiIntent, err := ir.fallback.Classify(ctx, query); err == nil {
				return aiIntent
			} else {
				log.Printf("⚠️ LLM 意图兜底失败，保留规则结果: %v", err)
			}
		}
	}

	return intent
}

// extractTerms 规则表驱动的查询词规范化
// 顺序：去标点 → 分词 → 丢停用词/触发词/仓库全名 → 去重
func extractTerms(normalized string) []string {
	cleaned := nonWordPattern.ReplaceAllString(normalized, " ")
	fields := strings.Fields(cleaned)

	seen := make(map[string]bool, len(fields))
	var terms []string
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] || triggerWords[f] || seen[f] {
			continue
		}
		if strings.Contains(f, "/") {
			continue // owner/repo 走 Targets
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}
