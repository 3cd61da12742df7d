package cache

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"
)

// Memory 是进程内缓存后端，用于单实例部署/测试/开发。
// 支持 TTL（过期懒清理 + 后台定期清扫），容量超限时按最久未访问
// 淘汰约 10% 条目。进程重启后数据丢失。
type Memory struct {
	mu      sync.RWMutex
	data    map[string]*memEntry
	maxSize int
	sweep   *time.Ticker
	stop    chan struct{}
}

type memEntry struct {
	value      []byte
	createdAt  time.Time
	expiresAt  time.Time // 零值表示不过期
	accessedAt time.Time
}

func (e *memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

const (
	defaultMemoryMaxSize = 1000
	defaultSweepInterval = 10 * time.Second
)

// NewMemory 创建内存缓存后端。maxSize <= 0 时使用默认容量 1000。
func NewMemory(maxSize int) *Memory {
	return NewMemoryWithSweep(maxSize, defaultSweepInterval)
}

// NewMemoryWithSweep 创建内存缓存后端并指定清扫间隔。
func NewMemoryWithSweep(maxSize int, sweepInterval time.Duration) *Memory {
	if maxSize <= 0 {
		maxSize = defaultMemoryMaxSize
	}
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	m := &Memory{
		data:    make(map[string]*memEntry),
		maxSize: maxSize,
		sweep:   time.NewTicker(sweepInterval),
		stop:    make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	now := time.Now()
	if e.expired(now) {
		delete(m.data, key)
		return nil, ErrCacheMiss
	}
	e.accessedAt = now
	return e.value, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.data) >= m.maxSize {
		m.evictOldest()
	}

	now := time.Now()
	e := &memEntry{
		value:      value,
		createdAt:  now,
		accessedAt: now,
	}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	m.data[key] = e
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Clear(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pattern == "" || pattern == "*" {
		m.data = make(map[string]*memEntry)
		return nil
	}
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return false, nil
	}
	// 与 Get 一致：访问到过期条目时顺手清理
	if e.expired(time.Now()) {
		delete(m.data, key)
		return false, nil
	}
	return true, nil
}

func (m *Memory) Close() error {
	m.sweep.Stop()
	close(m.stop)
	return nil
}

// Len 返回当前条目数（含未清理的过期条目），用于测试/监控。
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// evictOldest 按最久未访问淘汰约 10% 条目（至少 1 条）。调用方需持有写锁。
func (m *Memory) evictOldest() {
	type keyed struct {
		key        string
		accessedAt time.Time
	}
	entries := make([]keyed, 0, len(m.data))
	for k, e := range m.data {
		entries = append(entries, keyed{key: k, accessedAt: e.accessedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].accessedAt.Before(entries[j].accessedAt)
	})

	n := len(entries) / 10
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		delete(m.data, entries[i].key)
	}
}

func (m *Memory) sweepLoop() {
	for {
		select {
		case <-m.sweep.C:
			m.sweepExpired()
		case <-m.stop:
			return
		}
	}
}

func (m *Memory) sweepExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, e := range m.data {
		if e.expired(now) {
			delete(m.data, k)
		}
	}
}
