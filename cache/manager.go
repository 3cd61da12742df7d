package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
)

// Manager 是带编解码与统计的缓存门面，引擎只依赖它而非具体后端。
//
// 契约（对调用方）：
//   - Get 返回 false 统一表示"未缓存"，不区分 miss 与后端故障
//   - Set/Delete/Clear 返回失败状态，调用方按未缓存继续
//   - 后端错误只累加 Errors 计数并打日志，从不向上传播
type Manager struct {
	backend Backend
	stats   *Stats
	logger  *slog.Logger
}

// ManagerOption 配置 Manager 的可选项。
type ManagerOption func(*Manager)

// WithStats 注入外部持有的统计对象（便于调用方聚合多个组件的计数）。
func WithStats(stats *Stats) ManagerOption {
	return func(m *Manager) {
		if stats != nil {
			m.stats = stats
		}
	}
}

// WithLogger 注入日志器。
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager 创建缓存门面。
func NewManager(backend Backend, opts ...ManagerOption) *Manager {
	m := &Manager{
		backend: backend,
		stats:   &Stats{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Stats 返回统计对象。
func (m *Manager) Stats() *Stats { return m.stats }

// Backend 返回底层后端（用于观测/关闭）。
func (m *Manager) Backend() Backend { return m.backend }

// Get 读取并反序列化缓存值到 out。返回 true 表示命中。
func (m *Manager) Get(ctx context.Context, key string, out any) bool {
	data, err := m.backend.Get(ctx, key)
	if err != nil {
		if IsMiss(err) {
			m.stats.Misses.Add(1)
		} else {
			m.stats.Errors.Add(1)
			m.stats.Misses.Add(1)
			m.logger.Warn("cache get failed", "backend", m.backend.Name(), "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		// 反序列化失败按脏数据处理：删除并当作 miss
		m.stats.Errors.Add(1)
		m.stats.Misses.Add(1)
		m.logger.Warn("cache decode failed", "key", key, "err", err)
		_ = m.backend.Delete(ctx, key)
		return false
	}
	m.stats.Hits.Add(1)
	return true
}

// Set 序列化并写入缓存。返回 false 表示写入失败（调用方继续，无缓存）。
func (m *Manager) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		m.stats.Errors.Add(1)
		m.logger.Warn("cache encode failed", "key", key, "err", err)
		return false
	}
	if err := m.backend.Set(ctx, key, data, ttl); err != nil {
		m.stats.Errors.Add(1)
		m.logger.Warn("cache set failed", "backend", m.backend.Name(), "key", key, "err", err)
		return false
	}
	m.stats.Sets.Add(1)
	return true
}

// Delete 删除缓存条目。
func (m *Manager) Delete(ctx context.Context, key string) bool {
	if err := m.backend.Delete(ctx, key); err != nil {
		m.stats.Errors.Add(1)
		m.logger.Warn("cache delete failed", "backend", m.backend.Name(), "key", key, "err", err)
		return false
	}
	m.stats.Deletes.Add(1)
	return true
}

// Exists 检查 key 是否存在且未过期。后端故障按不存在处理。
func (m *Manager) Exists(ctx context.Context, key string) bool {
	ok, err := m.backend.Exists(ctx, key)
	if err != nil {
		m.stats.Errors.Add(1)
		return false
	}
	return ok
}

// Clear 删除匹配 pattern 的条目。
func (m *Manager) Clear(ctx context.Context, pattern string) bool {
	if err := m.backend.Clear(ctx, pattern); err != nil {
		m.stats.Errors.Add(1)
		m.logger.Warn("cache clear failed", "backend", m.backend.Name(), "pattern", pattern, "err", err)
		return false
	}
	return true
}

// Close 关闭底层后端。
func (m *Manager) Close() error {
	return m.backend.Close()
}
