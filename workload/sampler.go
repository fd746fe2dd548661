package workload

import (
	"math"
	randv2 "math/rand/v2"
)

// rankSampler 回傳 0..n-1 的 rank
type rankSampler interface {
	Rank() int
}

type zipfSampler struct {
	zipf *randv2.Zipf
}

func (z zipfSampler) Rank() int {
	return int(z.zipf.Uint64())
}

type uniformSampler struct {
	r *randv2.Rand
	n int
}

func (u uniformSampler) Rank() int {
	return u.r.IntN(u.n)
}

// newSampler s = 0 時為均勻分布，否則為 Zipf(s, v)
func newSampler(r *randv2.Rand, n int, s, v float64) rankSampler {
	if s == 0 {
		return uniformSampler{r: r, n: n}
	}
	return zipfSampler{zipf: randv2.NewZipf(r, s, v, uint64(n-1))}
}

// Weights 計算各 rank 的理論機率並正規化；s = 0 時每個 rank 機率相同
func Weights(n int, s, v float64) []float64 {
	weights := make([]float64, n)
	if s == 0 {
		for i := range weights {
			weights[i] = 1.0 / float64(n)
		}
		return weights
	}
	var sum float64
	for i := range weights {
		weights[i] = 1.0 / math.Pow(v+float64(i), s)
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// Entropy 計算分布的熵（單位：bit），忽略 <= 0 的值
func Entropy[K comparable](dist map[K]float64) float64 {
	h := 0.0
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
