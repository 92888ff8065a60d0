package aggregate

import (
	"fmt"
	"testing"

	"github.com/fiascohq/fiasco/backend/internal/model/profile"
)

func scored(score int) profile.Analysis {
	return profile.Analysis{
		Platform:       profile.PlatformTwitter,
		RiskAssessment: profile.RiskAssessment{PrivacyScore: score},
	}
}

func TestOverallScoreEmpty(t *testing.T) {
	if got := OverallScore(map[string]profile.Analysis{}); got != 0 {
		t.Fatalf("expected 0 for empty set, got %d", got)
	}
}

func TestOverallScoreSingleEntry(t *testing.T) {
	results := map[string]profile.Analysis{"a": scored(50)}
	if got := OverallScore(results); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestOverallScoreMean(t *testing.T) {
	results := map[string]profile.Analysis{"a": scored(40), "b": scored(60)}
	if got := OverallScore(results); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestOverallScoreRoundsToNearest(t *testing.T) {
	results := map[string]profile.Analysis{"a": scored(40), "b": scored(61)}
	if got := OverallScore(results); got != 51 {
		t.Fatalf("expected 51, got %d", got)
	}
}

func TestOverallScoreSkipsFailedEntries(t *testing.T) {
	results := map[string]profile.Analysis{
		"a": scored(50),
		"b": {Error: "crawl failed", RiskAssessment: profile.RiskAssessment{PrivacyScore: 100}},
	}
	if got := OverallScore(results); got != 50 {
		t.Fatalf("failed entry leaked into the mean: got %d", got)
	}
}

func TestPublicInfoCountRule(t *testing.T) {
	results := map[string]profile.Analysis{
		"a": {PrivacySettings: map[string]any{
			"a": true,
			"b": "private",
			"c": "public_profile",
		}},
	}
	if got := PublicInfoCount(results); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestPublicInfoCountExactPublicString(t *testing.T) {
	results := map[string]profile.Analysis{
		"a": {PrivacySettings: map[string]any{
			"visibility": "public",
			"review":     false,
		}},
	}
	if got := PublicInfoCount(results); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestThirdPartyAccessEstimateBounds(t *testing.T) {
	results := map[string]profile.Analysis{}
	if got := ThirdPartyAccessEstimate(results); got != 0 {
		t.Fatalf("expected 0 for empty set, got %d", got)
	}

	previous := 0
	for i := 0; i < 20; i++ {
		results[fmt.Sprintf("url-%d", i)] = scored(50)
		got := ThirdPartyAccessEstimate(results)
		if got < previous {
			t.Fatalf("estimate decreased from %d to %d at %d profiles", previous, got, i+1)
		}
		if got > 12 {
			t.Fatalf("estimate exceeded cap: %d", got)
		}
		previous = got
	}
}

func TestThirdPartyAccessEstimateIsDeterministic(t *testing.T) {
	results := map[string]profile.Analysis{"a": scored(50), "b": scored(60)}
	first := ThirdPartyAccessEstimate(results)
	for i := 0; i < 5; i++ {
		if got := ThirdPartyAccessEstimate(results); got != first {
			t.Fatalf("estimate varied between calls: %d vs %d", first, got)
		}
	}
}

func TestGroupByPlatformDropsNothing(t *testing.T) {
	results := map[string]profile.Analysis{
		"https://twitter.com/a":   {Platform: profile.PlatformTwitter},
		"https://twitter.com/b":   {Platform: profile.PlatformTwitter},
		"https://facebook.com/c":  {Platform: profile.PlatformFacebook},
		"https://example.com/d":   {},
		"https://instagram.com/e": {Platform: profile.PlatformInstagram, Error: "crawl failed"},
	}

	grouped := GroupByPlatform(results)

	total := 0
	for _, group := range grouped {
		total += len(group)
	}
	if total != len(results) {
		t.Fatalf("grouping dropped entries: %d != %d", total, len(results))
	}
	if len(grouped[profile.PlatformUnknown]) != 1 {
		t.Fatalf("entry without platform should group under unknown: %+v", grouped)
	}
	if len(grouped[profile.PlatformInstagram]) != 1 {
		t.Fatal("failed entries must still be grouped for display")
	}
}

func TestGroupByPlatformAnnotatesURLs(t *testing.T) {
	results := map[string]profile.Analysis{
		"https://twitter.com/b": {Platform: profile.PlatformTwitter},
		"https://twitter.com/a": {Platform: profile.PlatformTwitter},
	}

	grouped := GroupByPlatform(results)
	group := grouped[profile.PlatformTwitter]
	if len(group) != 2 {
		t.Fatalf("expected 2 twitter entries, got %d", len(group))
	}
	if group[0].URL != "https://twitter.com/a" || group[1].URL != "https://twitter.com/b" {
		t.Fatalf("expected stable url ordering, got %s then %s", group[0].URL, group[1].URL)
	}
}

func TestGroupByPlatformDoesNotMutateInput(t *testing.T) {
	results := map[string]profile.Analysis{
		"https://twitter.com/a": {Platform: profile.PlatformTwitter},
	}

	GroupByPlatform(results)

	if results["https://twitter.com/a"].URL != "" {
		t.Fatal("input map was mutated")
	}
}
