// Package cache 实现结果缓存：带 TTL 的 KV 抽象、可插拔后端、命中统计。
//
// 后端选择是配置问题而非行为问题：进程内 Memory 与外部 Redis
// 满足同一契约（set 后立即 get 返回原值，TTL 到期后按 miss 处理）。
// 所有缓存操作都是非致命的：后端故障时 Get 按 miss 处理、写操作
// 返回失败状态并累加错误计数，调用方按未缓存继续。
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rushteam/bookrec/core"
)

// Backend 是缓存后端的统一契约。
//
// 实现：
//   - Memory：进程内有界 map，LRA 淘汰，适合单实例/测试
//   - Redis：外部 KV，适合多实例部署
type Backend interface {
	// Name 返回后端名称（用于日志/监控）
	Name() string

	// Get 读取 key，不存在或已过期时返回 ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入 key-value；ttl <= 0 表示不过期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除单个 key，key 不存在不视为错误
	Delete(ctx context.Context, key string) error

	// Clear 删除匹配 pattern 的所有 key（glob 语法，"*" 为全部）
	Clear(ctx context.Context, pattern string) error

	// Exists 检查 key 是否存在且未过期
	Exists(ctx context.Context, key string) (bool, error)

	// Close 释放资源
	Close() error
}

// Cache 错误定义（使用统一的 DomainError）
var (
	// ErrCacheMiss 表示 key 不存在或已过期
	ErrCacheMiss = core.NewDomainError(core.ModuleCache, core.ErrorCodeNotFound, "cache: key not found")

	// ErrCacheUnavailable 表示后端不可达
	ErrCacheUnavailable = core.NewDomainError(core.ModuleCache, core.ErrorCodeUnavailable, "cache: backend unavailable")
)

// IsMiss 检查错误是否为缓存未命中
func IsMiss(err error) bool {
	if domainErr := core.GetDomainError(err); domainErr != nil {
		return domainErr.Module == core.ModuleCache && domainErr.Code == core.ErrorCodeNotFound
	}
	return false
}

// Stats 是缓存的运行统计。显式注入、由调用方聚合，不做进程级单例。
// 所有计数器支持并发递增。
type Stats struct {
	Hits    atomic.Int64
	Misses  atomic.Int64
	Sets    atomic.Int64
	Deletes atomic.Int64
	Errors  atomic.Int64
}

// StatsSnapshot 是某一时刻的统计快照。
type StatsSnapshot struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	Deletes int64   `json:"deletes"`
	Errors  int64   `json:"errors"`
	HitRate float64 `json:"hit_rate"`
}

// Snapshot 读取当前统计。
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Hits:    s.Hits.Load(),
		Misses:  s.Misses.Load(),
		Sets:    s.Sets.Load(),
		Deletes: s.Deletes.Load(),
		Errors:  s.Errors.Load(),
	}
	if total := snap.Hits + snap.Misses; total > 0 {
		snap.HitRate = float64(snap.Hits) / float64(total)
	}
	return snap
}

// maxParamKeyLen 是参数串的长度阈值，超过后折叠为定长哈希，保证 key 有界。
const maxParamKeyLen = 100

// Key 生成确定性的缓存 key：namespace + 规范化的参数串。
// 参数按名称排序后以 k=v&k=v 编码，与传入顺序无关；
// 编码串超长时折叠为 md5 哈希。
func Key(namespace string, params map[string]any) string {
	if len(params) == 0 {
		return namespace
	}

	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, k := range names {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, params[k]))
	}
	paramStr := strings.Join(pairs, "&")

	if len(paramStr) > maxParamKeyLen {
		sum := md5.Sum([]byte(paramStr))
		paramStr = hex.EncodeToString(sum[:])
	}
	return namespace + ":" + paramStr
}
