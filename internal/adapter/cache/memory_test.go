package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemory_基本读写删(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)

	m.Set(ctx, "pool|user_42", []byte(`{"user_id":"user_42"}`), time.Hour)
	v, ok := m.Get(ctx, "pool|user_42")
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"user_id":"user_42"}`), v)

	m.Delete(ctx, "pool|user_42")
	_, ok = m.Get(ctx, "pool|user_42")
	assert.False(t, ok)
}

func TestMemory_TTL过期(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	m.SetNowFunc(func() time.Time { return now })

	m.Set(ctx, "seen|user_42", []byte(`["github-1"]`), 5*time.Minute)

	// 没到期
	now = now.Add(4 * time.Minute)
	_, ok := m.Get(ctx, "seen|user_42")
	assert.True(t, ok)

	// 过期后读不到，条目被惰性清理
	now = now.Add(2 * time.Minute)
	_, ok = m.Get(ctx, "seen|user_42")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "seen|user_42")
	assert.False(t, ok)
}

func TestMemory_覆盖写刷新TTL(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	m.SetNowFunc(func() time.Time { return now })

	m.Set(ctx, "k", []byte("old"), time.Minute)
	now = now.Add(50 * time.Second)
	m.Set(ctx, "k", []byte("new"), time.Minute)

	now = now.Add(30 * time.Second)
	v, ok := m.Get(ctx, "k")
	assert.True(t, ok, "覆盖写之后按新的 TTL 算")
	assert.Equal(t, []byte("new"), v)
}

func TestMemory_并发安全(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Set(ctx, "shared", []byte("v"), time.Minute)
				m.Get(ctx, "shared")
				m.Delete(ctx, "shared")
			}
		}()
	}
	wg.Wait()
}
