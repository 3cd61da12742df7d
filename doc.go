// Package bookrec 是一个图书推荐引擎（Book Recommendation Engine）。
//
// 设计要点：
// - Strategy-first: 三种推荐策略（相似/个性化/热门）由 engine 统一编排
// - Interface-first: 目录存储与向量服务以领域接口注入（core.CatalogStore / core.Embedder）
// - 缓存与降级: 结果缓存（内存/Redis）+ 全链路失败降级，不向调用方报错
package bookrec

import (
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/engine"
)

// 轻量 facade：便于用户直接 import "bookrec" 使用核心抽象。
type Book = core.Book
type ScoredBook = core.ScoredBook
type UserProfile = core.UserProfile
type CatalogStore = core.CatalogStore
type Embedder = core.Embedder

type Engine = engine.Engine

const (
	SourceComputed         = engine.SourceComputed
	SourceFallbackTrending = engine.SourceFallbackTrending
)

// New 创建推荐引擎，等价于 engine.New。
var New = engine.New
