package profile

// RiskLevel categorizes the severity of a profile's privacy exposure.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAssessment is the scored outcome of analyzing one profile.
type RiskAssessment struct {
	PrivacyScore    int       `json:"privacy_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	RiskFactors     []string  `json:"risk_factors"`
	Recommendations []string  `json:"recommendations"`
}

// Analysis is the privacy assessment produced for a single submitted URL.
// PrivacySettings values are booleans or visibility strings such as
// "public"/"private"/"friends". ActivityData is open-ended; common keys are
// post_count, follower_count and following_count.
type Analysis struct {
	Platform        Platform       `json:"platform"`
	Username        string         `json:"username"`
	Timestamp       string         `json:"timestamp"`
	PrivacySettings map[string]any `json:"privacy_settings"`
	ActivityData    map[string]any `json:"activity_data"`
	RiskAssessment  RiskAssessment `json:"risk_assessment"`

	// URL is filled in when the analysis is returned grouped by platform,
	// so the caller can tell entries of one platform apart.
	URL string `json:"url,omitempty"`

	// Error marks a failed analysis. When set, no other field is trusted
	// and the entry is excluded from numeric aggregates.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the analysis carries a per-URL error.
func (a Analysis) Failed() bool {
	return a.Error != ""
}

// Clone returns a deep copy so callers can mutate the result freely.
func (a Analysis) Clone() Analysis {
	out := a
	out.PrivacySettings = cloneMap(a.PrivacySettings)
	out.ActivityData = cloneMap(a.ActivityData)
	out.RiskAssessment.RiskFactors = append([]string(nil), a.RiskAssessment.RiskFactors...)
	out.RiskAssessment.Recommendations = append([]string(nil), a.RiskAssessment.Recommendations...)
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
