// Package similarity 提供向量与属性相似度的纯函数实现。
//
// 所有函数都是无副作用的：不访问缓存、不访问存储、不打日志。
// 输入异常（空向量、维度不一致）一律降级为 0 分，由调用方决定
// 是否记录数据质量信号。
package similarity

import "math"

// Cosine 计算两个向量的余弦相似度，结果钳制到 [0,1]。
//
// 负相似度（稠密向量空间中可能出现）按 0 处理：当前使用的
// embedding 空间里"无关"与"相反"不作区分。若更换模型后负值
// 有语义，需要重新评估此钳制。
//
// 空向量或维度不一致时返回 0，不报错。
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	return clamp01(sim)
}

// BatchCosine 对候选矩阵逐行计算与 query 的余弦相似度，结果顺序与候选一致。
// 若任一候选的宽度与 query 不一致，整批返回全 0（视为数据质量问题）。
func BatchCosine(query []float64, candidates [][]float64) []float64 {
	if len(candidates) == 0 {
		return nil
	}

	out := make([]float64, len(candidates))
	if len(query) == 0 {
		return out
	}
	for _, c := range candidates {
		if len(c) != len(query) {
			return make([]float64, len(candidates))
		}
	}

	for i, c := range candidates {
		out[i] = Cosine(query, c)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
