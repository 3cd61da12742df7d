package engine

import "sync/atomic"

// Stats 是引擎的运行统计。显式注入、由调用方聚合，不做进程级单例。
// 所有计数器支持并发递增。
type Stats struct {
	SimilarRequests      atomic.Int64
	PersonalizedRequests atomic.Int64
	TrendingRequests     atomic.Int64

	RecommendationsGenerated atomic.Int64
	ColdStartFallbacks       atomic.Int64
	ProfilesBuilt            atomic.Int64

	// DegradedResults 统计因上游不可用/数据缺失而缩水或清空的请求。
	DegradedResults atomic.Int64
}

// StatsSnapshot 是某一时刻的统计快照。
type StatsSnapshot struct {
	SimilarRequests          int64 `json:"similar_requests"`
	PersonalizedRequests     int64 `json:"personalized_requests"`
	TrendingRequests         int64 `json:"trending_requests"`
	RecommendationsGenerated int64 `json:"recommendations_generated"`
	ColdStartFallbacks       int64 `json:"cold_start_fallbacks"`
	ProfilesBuilt            int64 `json:"profiles_built"`
	DegradedResults          int64 `json:"degraded_results"`
}

// Snapshot 读取当前统计。
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		SimilarRequests:          s.SimilarRequests.Load(),
		PersonalizedRequests:     s.PersonalizedRequests.Load(),
		TrendingRequests:         s.TrendingRequests.Load(),
		RecommendationsGenerated: s.RecommendationsGenerated.Load(),
		ColdStartFallbacks:       s.ColdStartFallbacks.Load(),
		ProfilesBuilt:            s.ProfilesBuilt.Load(),
		DegradedResults:          s.DegradedResults.Load(),
	}
}
