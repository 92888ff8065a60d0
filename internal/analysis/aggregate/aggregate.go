// Package aggregate derives cross-profile summary metrics from a set of
// per-URL analyses. Every function is pure and never mutates its input;
// entries carrying a per-URL error are excluded from numeric rollups but
// still appear in the platform grouping so callers can list them.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/fiascohq/fiasco/backend/internal/model/profile"
)

// thirdPartyAccessCap bounds the heuristic estimate.
const thirdPartyAccessCap = 12

// Summary bundles the aggregates computed on every read.
type Summary struct {
	OverallScore     int                                      `json:"overall_score"`
	PublicInfoCount  int                                      `json:"public_info_count"`
	ThirdPartyAccess int                                      `json:"third_party_access"`
	ByPlatform       map[profile.Platform][]profile.Analysis `json:"by_platform"`
}

// Summarize computes all aggregates for a result set.
func Summarize(results map[string]profile.Analysis) Summary {
	return Summary{
		OverallScore:     OverallScore(results),
		PublicInfoCount:  PublicInfoCount(results),
		ThirdPartyAccess: ThirdPartyAccessEstimate(results),
		ByPlatform:       GroupByPlatform(results),
	}
}

// OverallScore is the mean privacy score over all successful analyses,
// rounded to the nearest integer. An empty or all-failed set scores 0.
func OverallScore(results map[string]profile.Analysis) int {
	sum, eligible := 0, 0
	for _, analysis := range results {
		if analysis.Failed() {
			continue
		}
		sum += analysis.RiskAssessment.PrivacyScore
		eligible++
	}
	if eligible == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(eligible)))
}

// PublicInfoCount counts privacy settings that expose information: boolean
// true, the exact value "public", or any string containing "public". This
// is a heuristic exposure count, nothing more.
func PublicInfoCount(results map[string]profile.Analysis) int {
	count := 0
	for _, analysis := range results {
		if analysis.Failed() {
			continue
		}
		for _, value := range analysis.PrivacySettings {
			switch v := value.(type) {
			case bool:
				if v {
					count++
				}
			case string:
				if strings.Contains(v, "public") {
					count++
				}
			}
		}
	}
	return count
}

// ThirdPartyAccessEstimate approximates how many third parties could hold
// profile data. The original product used profileCount*2 plus a random
// term; the random term is fixed at its midpoint here so the estimate is
// deterministic. It is monotonically non-decreasing in profile count and
// never exceeds the cap.
func ThirdPartyAccessEstimate(results map[string]profile.Analysis) int {
	eligible := 0
	for _, analysis := range results {
		if !analysis.Failed() {
			eligible++
		}
	}
	if eligible == 0 {
		return 0
	}
	estimate := eligible*2 + 2
	if estimate > thirdPartyAccessCap {
		return thirdPartyAccessCap
	}
	return estimate
}

// GroupByPlatform partitions every entry, failed ones included, by
// platform. Each grouped analysis carries its originating URL, and groups
// are ordered by URL so repeated reads render identically.
func GroupByPlatform(results map[string]profile.Analysis) map[profile.Platform][]profile.Analysis {
	grouped := make(map[profile.Platform][]profile.Analysis)

	urls := make([]string, 0, len(results))
	for url := range results {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	for _, url := range urls {
		analysis := results[url]
		platform := analysis.Platform
		if platform == "" {
			platform = profile.PlatformUnknown
		}
		analysis.URL = url
		grouped[platform] = append(grouped[platform], analysis)
	}
	return grouped
}
