// Package similarity provides the vector comparison kernel shared by the
// vector store implementations. Cosine similarity is the fixed metric of
// this system; "better" always means a higher score.
package similarity

import "math"

// MetricCosine names the metric persisted stores record alongside their
// dimension so a mismatched reopen can be rejected.
const MetricCosine = "cosine"

// Cosine computes the cosine similarity between two vectors of equal
// length. A zero vector on either side yields 0.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0
	}
	return dot / den
}

// NormalizeL2 returns a copy of v scaled to unit L2 norm. A zero vector
// is returned unchanged.
func NormalizeL2(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	n := math.Sqrt(sum)
	if n == 0 {
		copy(out, v)
		return out
	}
	inv := float32(1.0 / n)
	for i := range v {
		out[i] = v[i] * inv
	}
	return out
}
