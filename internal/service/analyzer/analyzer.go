package analyzer

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"time"

	"github.com/fiascohq/fiasco/backend/internal/model/profile"
)

// Analyzer turns a profile URL into a privacy analysis. Implementations
// never return a Go error: a failed crawl is reported on Analysis.Error so
// one bad URL cannot abort its siblings in the same submission.
type Analyzer interface {
	Analyze(ctx context.Context, profileURL string) profile.Analysis
}

// Clock abstraction so analysis timestamps are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Config tunes the simulated crawler.
type Config struct {
	// Delay simulates the latency of a real crawl before a result is
	// produced. Zero means the analysis completes immediately.
	Delay time.Duration

	// Timeout bounds a single analysis. An expired context yields an
	// Error-bearing analysis, never a failed submission. Zero disables
	// the bound.
	Timeout time.Duration

	// Clock defaults to SystemClock.
	Clock Clock
}

// Simulated is the reference Analyzer: it classifies the URL, derives a
// username from the path, and stamps a deep copy of the platform's seed
// template. A real crawler substitutes for it behind the same interface.
type Simulated struct {
	templates map[profile.Platform]profile.Analysis
	delay     time.Duration
	timeout   time.Duration
	clock     Clock
}

// NewSimulated builds the simulated analyzer from the seeded templates.
func NewSimulated(cfg Config) *Simulated {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &Simulated{
		templates: profile.Seed(),
		delay:     cfg.Delay,
		timeout:   cfg.Timeout,
		clock:     clock,
	}
}

// Analyze produces the simulated assessment for one URL.
func (s *Simulated) Analyze(ctx context.Context, profileURL string) profile.Analysis {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return failedAnalysis(profileURL, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return failedAnalysis(profileURL, err)
	}

	platform := profile.Classify(profileURL)

	template, ok := s.templates[platform]
	if !ok {
		// Platforms without a template of their own reuse the twitter
		// one; the platform field below still reflects the real match.
		template = s.templates[profile.PlatformTwitter]
	}

	analysis := template.Clone()
	analysis.Platform = platform
	analysis.Username = deriveUsername(profileURL)
	analysis.Timestamp = s.clock.Now().UTC().Format(time.RFC3339)
	return analysis
}

func failedAnalysis(profileURL string, err error) profile.Analysis {
	return profile.Analysis{
		Platform: profile.Classify(profileURL),
		Error:    fmt.Sprintf("analysis aborted: %v", err),
	}
}

// deriveUsername picks the last non-empty path segment of the URL, or a
// deterministic placeholder when the URL carries no path at all.
func deriveUsername(profileURL string) string {
	if parsed, err := url.Parse(profileURL); err == nil {
		segments := strings.Split(parsed.Path, "/")
		for i := len(segments) - 1; i >= 0; i-- {
			if segment := strings.TrimSpace(segments[i]); segment != "" {
				return segment
			}
		}
	}
	return placeholderUsername(profileURL)
}

func placeholderUsername(profileURL string) string {
	h := fnv.New32a()
	h.Write([]byte(profileURL))
	return fmt.Sprintf("user_%04d", h.Sum32()%10000)
}
