package profile

import "strings"

// Platform identifies the social network a profile URL belongs to.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformUnknown   Platform = "unknown"
)

// platformTable is matched in order; earlier fragments win when several
// could apply (x.com and twitter.com both resolve to twitter).
var platformTable = []struct {
	fragment string
	platform Platform
}{
	{"twitter.com", PlatformTwitter},
	{"x.com", PlatformTwitter},
	{"facebook.com", PlatformFacebook},
	{"instagram.com", PlatformInstagram},
	{"linkedin.com", PlatformLinkedIn},
	{"tiktok.com", PlatformTikTok},
	{"youtube.com", PlatformYouTube},
}

// Classify maps a profile URL to its platform. It is total: any URL that
// matches no known domain fragment classifies as PlatformUnknown.
func Classify(url string) Platform {
	lower := strings.ToLower(url)
	for _, entry := range platformTable {
		if strings.Contains(lower, entry.fragment) {
			return entry.platform
		}
	}
	return PlatformUnknown
}
