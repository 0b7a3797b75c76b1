// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"strings"
)

// DistanceCombinations lists the canonical "a-b" distance keys for the
// given criteria-block counts, in label order: ground1..N, space1..M,
// events1..K, paired without repetition.
func DistanceCombinations(ground, space, events int) []string {
	labels := distanceLabels(ground, space, events)
	keys := make([]string, 0, len(labels)*(len(labels)-1)/2)
	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			keys = append(keys, labels[i]+"-"+labels[j])
		}
	}
	return keys
}

func distanceLabels(ground, space, events int) []string {
	labels := make([]string, 0, ground+space+events)
	for i := 1; i <= ground; i++ {
		labels = append(labels, fmt.Sprintf("ground%d", i))
	}
	for i := 1; i <= space; i++ {
		labels = append(labels, fmt.Sprintf("space%d", i))
	}
	for i := 1; i <= events; i++ {
		labels = append(labels, fmt.Sprintf("events%d", i))
	}
	return labels
}

// normalizeDistances produces the full per-pair distance map the engine
// expects. A scalar distance expands uniformly over every combination; a
// partial map is completed with null defaults. Supplied keys match their
// canonical combination whichever order the two labels are written in;
// keys naming unknown label pairs are dropped.
func normalizeDistances(ground, space, events int, distance *float64, supplied map[string]*float64) map[string]*float64 {
	out := make(map[string]*float64)
	for _, key := range DistanceCombinations(ground, space, events) {
		out[key] = nil
	}

	if supplied != nil {
		for key, val := range supplied {
			if canon, ok := canonicalDistanceKey(out, key); ok {
				out[canon] = val
			}
		}
		return out
	}

	if distance != nil {
		for key := range out {
			d := *distance
			out[key] = &d
		}
	}
	return out
}

// canonicalDistanceKey resolves key against the combination set,
// accepting either label order and surrounding whitespace.
func canonicalDistanceKey(combos map[string]*float64, key string) (string, bool) {
	if _, ok := combos[key]; ok {
		return key, true
	}
	a, b, found := strings.Cut(key, "-")
	if !found {
		return "", false
	}
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	for _, candidate := range []string{a + "-" + b, b + "-" + a} {
		if _, ok := combos[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}
