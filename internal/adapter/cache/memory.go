package cache

import (
	"context"
	"sync"
	"time"
)

// Memory 进程内 TTL 缓存，实现 port.Cache
// 过期采用惰性清理：读到过期条目时才删。时钟可注入，方便测试造"时间流逝"
type Memory struct {
	mu      sync.RWMutex
	items   map[string]entry
	nowFunc func() time.Time
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory 创建内存缓存
func NewMemory() *Memory {
	return &Memory{
		items:   make(map[string]entry),
		nowFunc: time.Now,
	}
}

// SetNowFunc 注入时钟 (测试用)
func (m *Memory) SetNowFunc(f func() time.Time) {
	if f != nil {
		m.nowFunc = f
	}
}

// Get 读取，过期视为未命中并顺手删掉
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.nowFunc().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set 写入并设置存活时间
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	m.items[key] = entry{
		value:     value,
		expiresAt: m.nowFunc().Add(ttl),
	}
	m.mu.Unlock()
}

// Delete 显式失效
func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}
