package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mandanajignesh-byte/Repo-finder--sub002/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockClassifier 模拟 LLM 兜底分类器
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, query string) (*domain.Intent, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Intent), args.Error(1)
}

func TestIntentRouter_规则表分类(t *testing.T) {
	ir := NewIntentRouter(nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"对比触发词", "compare gin vs echo", domain.IntentCompare},
		{"健康触发词", "is this project still maintained?", domain.IntentHealthCheck},
		{"替代品触发词", "alternatives to express for node", domain.IntentAlternatives},
		{"趋势触发词", "trending rust projects this week", domain.IntentTrending},
		{"搜索触发词", "find me a fast json parser", domain.IntentSearch},
		{"compare优先于search", "find and compare gin vs echo", domain.IntentCompare},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ir.Route(ctx, tt.query)
			assert.Equal(t, tt.want, got.Type)
		})
	}
}

func TestIntentRouter_仓库全名提取(t *testing.T) {
	ir := NewIntentRouter(nil)

	got := ir.Route(context.Background(), "compare gin-gonic/gin vs labstack/echo")
	assert.Equal(t, domain.IntentCompare, got.Type)
	assert.Equal(t, []string{"gin-gonic/gin", "labstack/echo"}, got.Targets)
	assert.NotContains(t, got.Terms, "gin-gonic/gin", "全名只进 Targets 不进搜索词")
}

func TestIntentRouter_裸仓库名默认问健康(t *testing.T) {
	ir := NewIntentRouter(nil)

	got := ir.Route(context.Background(), "gin-gonic/gin")
	assert.Equal(t, domain.IntentHealthCheck, got.Type)
	assert.Equal(t, []string{"gin-gonic/gin"}, got.Targets)
}

func TestIntentRouter_无规则命中但有词走搜索(t *testing.T) {
	ir := NewIntentRouter(nil)

	got := ir.Route(context.Background(), "fast json parser")
	assert.Equal(t, domain.IntentSearch, got.Type)
	assert.Equal(t, []string{"fast", "json", "parser"}, got.Terms)
}

func TestIntentRouter_搜索词清洗(t *testing.T) {
	ir := NewIntentRouter(nil)

	got := ir.Route(context.Background(), "please find me some good Go libraries for web scraping!!!")
	// 停用词 (please/me/some/good/for)、触发词 (find)、类属词 (libraries) 全部剔除
	assert.Equal(t, []string{"go", "web", "scraping"}, got.Terms)
}

func TestIntentRouter_空查询(t *testing.T) {
	ir := NewIntentRouter(nil)

	got := ir.Route(context.Background(), "   ")
	assert.Equal(t, domain.IntentUnknown, got.Type)
	assert.Empty(t, got.Targets)
	assert.Empty(t, got.Terms)
}

func TestIntentRouter_LLM兜底(t *testing.T) {
	mc := new(MockClassifier)
	mc.On("Classify", mock.Anything, "嗯？").
		Return(&domain.Intent{Type: domain.IntentSearch, Terms: []string{"golang"}}, nil)

	ir := NewIntentRouter(mc)
	got := ir.Route(context.Background(), "嗯？")

	assert.Equal(t, domain.IntentSearch, got.Type)
	assert.Equal(t, []string{"golang"}, got.Terms)
	mc.AssertExpectations(t)
}

func TestIntentRouter_LLM失败保留规则结果(t *testing.T) {
	mc := new(MockClassifier)
	mc.On("Classify", mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded"))

	ir := NewIntentRouter(mc)
	got := ir.Route(context.Background(), "嗯？")

	assert.Equal(t, domain.IntentUnknown, got.Type, "兜底失败时降级为 unknown，不报错")
	mc.AssertExpectations(t)
}

func TestIntentRouter_规则能判时不问LLM(t *testing.T) {
	mc := new(MockClassifier)

	ir := NewIntentRouter(mc)
	got := ir.Route(context.Background(), "trending python projects")

	assert.Equal(t, domain.IntentTrending, got.Type)
	mc.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
}
