package profile

// Seed provides the simulated per-platform analysis templates. Platforms
// without a template of their own are analyzed with the twitter one, with
// the platform field overridden by the analyzer.
func Seed() map[Platform]Analysis {
	return map[Platform]Analysis{
		PlatformTwitter: {
			Platform: PlatformTwitter,
			PrivacySettings: map[string]any{
				"account_privacy":      "public",
				"who_can_message":      "everyone",
				"location_sharing":     true,
				"data_personalization": true,
				"tagged_photo_review":  false,
			},
			ActivityData: map[string]any{
				"post_count":          423,
				"follower_count":      1245,
				"following_count":     867,
				"retweet_count":       256,
				"like_count":          1782,
				"lists_count":         5,
				"verification_status": false,
				"tweets_with_media":   73,
			},
			RiskAssessment: RiskAssessment{
				PrivacyScore: 35,
				RiskLevel:    RiskHigh,
				RiskFactors: []string{
					"Public account exposes your content to anyone",
					"Location data attached to multiple posts",
					"Data personalization enabled allows platform to track preferences",
				},
				Recommendations: []string{
					"Set your account to private",
					"Disable location sharing",
					"Disable data personalization in settings",
				},
			},
		},
		PlatformFacebook: {
			Platform: PlatformFacebook,
			PrivacySettings: map[string]any{
				"profile_visibility":     "public",
				"friend_list_visibility": "friends",
				"future_post_privacy":    "public",
				"tagged_photo_review":    true,
				"face_recognition":       true,
			},
			ActivityData: map[string]any{
				"post_count":        278,
				"follower_count":    843,
				"following_count":   462,
				"friend_count":      732,
				"page_likes":        156,
				"group_memberships": 12,
				"events_attended":   34,
				"photos_uploaded":   189,
			},
			RiskAssessment: RiskAssessment{
				PrivacyScore: 42,
				RiskLevel:    RiskHigh,
				RiskFactors: []string{
					"Public profile visibility exposes your information to anyone",
					"Face recognition enabled can reduce privacy",
					"High post count creates a detailed digital footprint",
				},
				Recommendations: []string{
					"Set your profile to friends only",
					"Turn off face recognition",
					"Review and limit past post visibility",
				},
			},
		},
		PlatformInstagram: {
			Platform: PlatformInstagram,
			PrivacySettings: map[string]any{
				"account_privacy":            "private",
				"activity_status":            true,
				"story_sharing":              "close friends only",
				"mentioned_story_sharing":    false,
				"data_sharing_with_partners": true,
			},
			ActivityData: map[string]any{
				"post_count":      156,
				"follower_count":  925,
				"following_count": 534,
				"average_likes":   112,
				"highlight_reels": 8,
				"saved_posts":     43,
				"tagged_photos":   27,
				"stories_posted":  312,
			},
			RiskAssessment: RiskAssessment{
				PrivacyScore: 65,
				RiskLevel:    RiskMedium,
				RiskFactors: []string{
					"Data sharing with partners enabled",
					"Activity status visible to all followers",
				},
				Recommendations: []string{
					"Disable data sharing with partners",
					"Turn off activity status",
				},
			},
		},
	}
}
