package provider

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultTolerance is the conventional same-person cutoff for normalized
// face embeddings: two faces at euclidean distance <= 0.6 are classified as
// the same person.
const DefaultTolerance = 0.6

// EuclideanDistance returns the L2 distance between two embeddings.
// Mismatched or empty vectors are maximally distant.
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	return floats.Distance(a, b, 2)
}

// SameFace is the binary same/different-person classifier that accompanies
// the embedding function. It is deliberately separate from any "closest
// entry" computation: the nearest gallery embedding can still classify as a
// different person.
func SameFace(known, probe []float64, tolerance float64) bool {
	return EuclideanDistance(known, probe) <= tolerance
}
