// Package store 提供 core.CatalogStore 的内置实现。
// 当前包含内存实现，用于测试/开发/原型；生产接数据库时
// 按同一接口另行实现即可。
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rushteam/bookrec/core"
)

// MemoryCatalog 是内存实现的目录存储。
// 支持物品/向量/交互的读写与窗口内热度聚合，进程重启后数据丢失。
type MemoryCatalog struct {
	mu           sync.RWMutex
	books        map[string]*core.Book
	embeddings   map[string]embeddingRow
	interactions map[string][]*core.Interaction // userID -> 交互历史（追加序）
}

type embeddingRow struct {
	vector   []float64
	textHash string
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		books:        make(map[string]*core.Book),
		embeddings:   make(map[string]embeddingRow),
		interactions: make(map[string][]*core.Interaction),
	}
}

var _ core.CatalogStore = (*MemoryCatalog)(nil)

// AddBook 写入或覆盖物品。
func (m *MemoryCatalog) AddBook(book *core.Book) {
	if book == nil || book.ID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID] = book
}

// RecordInteraction 追加一条交互记录。Book 快照缺失时从目录补齐。
func (m *MemoryCatalog) RecordInteraction(it *core.Interaction) {
	if it == nil || it.UserID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if it.Book == nil {
		it.Book = m.books[it.BookID]
	}
	if it.Timestamp.IsZero() {
		it.Timestamp = time.Now()
	}
	m.interactions[it.UserID] = append(m.interactions[it.UserID], it)
}

func (m *MemoryCatalog) GetBook(_ context.Context, id string) (*core.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.books[id]
	if !ok {
		return nil, core.ErrBookNotFound
	}
	return b, nil
}

func (m *MemoryCatalog) ListCandidates(_ context.Context, q core.CandidateQuery) ([]*core.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	excluded := make(map[string]bool, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		excluded[id] = true
	}

	// map 遍历序不稳定，先收集再按 ID 排序保证确定性
	ids := make([]string, 0, len(m.books))
	for id := range m.books {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*core.Book, 0, len(ids))
	for _, id := range ids {
		b := m.books[id]
		if excluded[b.ID] || categoryExcluded(b.Category, q.ExcludeCategories) {
			continue
		}
		out = append(out, b)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryCatalog) GetEmbedding(_ context.Context, bookID string) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.embeddings[bookID]
	if !ok {
		return nil, core.ErrEmbeddingNotFound
	}
	return row.vector, nil
}

func (m *MemoryCatalog) PutEmbedding(_ context.Context, bookID string, vector []float64, textHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.embeddings[bookID] = embeddingRow{vector: vector, textHash: textHash}
	return nil
}

func (m *MemoryCatalog) GetInteractions(_ context.Context, userID string) ([]*core.Interaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.interactions[userID]
	out := make([]*core.Interaction, len(rows))
	copy(out, rows)
	return out, nil
}

func (m *MemoryCatalog) GetPurchasedBookIDs(_ context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, it := range m.interactions[userID] {
		if it.Kind != core.InteractionPurchase || seen[it.BookID] {
			continue
		}
		seen[it.BookID] = true
		out = append(out, it.BookID)
	}
	return out, nil
}

// GetTrending 聚合窗口内所有用户的购买/交互计数，
// 热度 = purchase*2 + interaction，降序返回。
func (m *MemoryCatalog) GetTrending(_ context.Context, windowDays, minInteractions, limit int) ([]*core.TrendingBook, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cutoff := time.Now().AddDate(0, 0, -windowDays)
	agg := make(map[string]*core.TrendingBook)
	for _, rows := range m.interactions {
		for _, it := range rows {
			if it.Timestamp.Before(cutoff) {
				continue
			}
			book := it.Book
			if book == nil {
				book = m.books[it.BookID]
			}
			if book == nil {
				continue
			}
			row, ok := agg[it.BookID]
			if !ok {
				row = &core.TrendingBook{Book: book}
				agg[it.BookID] = row
			}
			if it.Kind == core.InteractionPurchase {
				row.PurchaseCount++
			} else {
				row.InteractionCount++
			}
		}
	}

	out := make([]*core.TrendingBook, 0, len(agg))
	for _, row := range agg {
		if row.PurchaseCount+row.InteractionCount < minInteractions {
			continue
		}
		row.TrendScore = float64(row.PurchaseCount*2 + row.InteractionCount)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TrendScore != out[j].TrendScore {
			return out[i].TrendScore > out[j].TrendScore
		}
		return out[i].Book.ID < out[j].Book.ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func categoryExcluded(category string, excluded []string) bool {
	for _, c := range excluded {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}
