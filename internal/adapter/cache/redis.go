package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis 多实例部署时的共享 TTL 缓存，实现 port.Cache
// 缓存只是加速层，Redis 出错一律当未命中处理，不往上抛
type Redis struct {
	client *redis.Client
}

// NewRedis 创建 Redis 缓存
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Redis{client: client}
}

// NewRedisWithClient 用现成的客户端构造 (测试用)
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get 读取，出错按未命中
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Redis 读取 %s 失败: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

// Set 写入，失败只记日志
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("⚠️ Redis 写入 %s 失败: %v", key, err)
	}
}

// Delete 显式失效，失败只记日志
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		log.Printf("⚠️ Redis 删除 %s 失败: %v", key, err)
	}
}
