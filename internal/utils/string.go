package utils

import (
	"context"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// FindClosestString returns the candidate with the smallest edit distance to target, candidates with more
// than maxDifferences differences are ignored. The search stops early if ctx is done.
func FindClosestString(ctx context.Context, candidates []string, target string, maxDifferences int) (closest string, distance int, found bool) {
	distance = maxDifferences + 1
	targetRunes := []rune(target)

	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return closest, distance, found
		default:
		}

		d := levenshtein.DistanceForStrings([]rune(candidate), targetRunes, levenshtein.DefaultOptionsWithSub)
		if d < distance {
			closest, distance, found = candidate, d, true
		}
	}

	if !found {
		return "", 0, false
	}
	return
}
