package analytics

import (
	"encoding/json"
	"fmt"
)

// JaccardSimilarity computes the Jaccard similarity between two string
// collections: the ratio of the sizes of their intersection and union
// after deduplication (case-sensitive, exact match). The result is in
// [0,1], with 0.0 defined for two empty inputs, and the operation is
// symmetric in its arguments.
func JaccardSimilarity(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}

	intersection := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// JaccardSimilarityJSON decodes two JSON string arrays and returns
// their Jaccard similarity. Undecodable input is a hard error.
func JaccardSimilarityJSON(aJSON, bJSON []byte) (float64, error) {
	var a []string
	if err := json.Unmarshal(aJSON, &a); err != nil {
		return 0, fmt.Errorf("failed to decode first set: %w", err)
	}

	var b []string
	if err := json.Unmarshal(bJSON, &b); err != nil {
		return 0, fmt.Errorf("failed to decode second set: %w", err)
	}

	return JaccardSimilarity(a, b), nil
}
