package session

import (
	"time"

	"github.com/fiascohq/fiasco/backend/internal/model/profile"
)

// Session is the durable record of one user's submitted profiles, addressed
// by an opaque id. URLs keeps every submission in order, duplicates
// included; Results is keyed by URL, last analysis wins.
type Session struct {
	ID          string                      `json:"session_id"`
	URLs        []string                    `json:"urls"`
	Results     map[string]profile.Analysis `json:"results"`
	LastUpdated time.Time                   `json:"last_updated"`
}

// Clone returns a copy whose URLs slice and Results map are independent of
// the receiver, so store internals never leak to callers.
func (s Session) Clone() Session {
	out := s
	out.URLs = append([]string(nil), s.URLs...)
	if s.Results != nil {
		out.Results = make(map[string]profile.Analysis, len(s.Results))
		for url, analysis := range s.Results {
			out.Results[url] = analysis.Clone()
		}
	}
	return out
}
