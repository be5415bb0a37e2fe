package transcoder

import (
	"sort"
	"strings"
)

// DefaultQuality is used when a request does not name a quality tier.
const DefaultQuality = "medium"

// qualityRates maps quality tiers to the constant rate factor passed with -crf.
// Lower values mean higher quality and larger files.
var qualityRates = map[string]int{
	"very low":  36,
	"low":       32,
	"medium":    31,
	"high":      24,
	"very high": 15,
}

// Rate returns the constant rate factor for a quality tier. Matching is
// case-insensitive.
func Rate(quality string) (int, bool) {
	rate, ok := qualityRates[strings.ToLower(quality)]
	return rate, ok
}

// IsQuality reports whether quality names a known tier.
func IsQuality(quality string) bool {
	_, ok := Rate(quality)
	return ok
}

// Qualities returns the known tiers ordered from lowest to highest quality.
func Qualities() []string {
	names := make([]string, 0, len(qualityRates))
	for name := range qualityRates {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return qualityRates[names[i]] > qualityRates[names[j]]
	})
	return names
}
