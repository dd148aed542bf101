package density

// baseline holds the fixed strings a competition tier always contributes.
type baseline struct {
	recommendations []string
	risks           []string
	opportunities   []string
	insights        []string
}

var tierBaselines = map[Tier]baseline{
	TierLow: {
		recommendations: []string{
			"Low competition: strong first-mover potential for a new location",
			"Validate local demand before committing; sparse competition can also signal thin demand",
		},
		risks: []string{
			"Sparse commercial activity may indicate limited foot traffic in the area",
		},
		opportunities: []string{
			"Capture unserved demand as the first established option nearby",
			"Set local price expectations without competitive pressure",
		},
	},
	TierModerate: {
		recommendations: []string{
			"Moderate competition: a clearly differentiated offering should win share",
			"Study the two or three strongest incumbents before choosing positioning",
		},
		opportunities: []string{
			"Room remains for a well-executed entrant alongside existing businesses",
		},
	},
	TierHigh: {
		recommendations: []string{
			"High competition: enter only with a defensible niche or underserved segment",
		},
		risks: []string{
			"Established competitors hold most local demand; customer acquisition will be expensive",
		},
		opportunities: []string{
			"High density confirms proven demand; a niche offering can still carve out share",
		},
	},
	TierSaturated: {
		recommendations: []string{
			"Saturated market: acquisition of an existing business is likely cheaper than a new entry",
			"Consider adjacent areas with lower density before committing to this one",
		},
		risks: []string{
			"Market saturation leaves little unclaimed demand; expect thin margins",
			"Weakest incumbents are likely already closing; churn does not equal opportunity",
		},
	},
}

// industryAugment holds extra strings keyed by industry preset tag.
// Insights always apply; tier-conditional entries apply only when the
// measurement lands in that tier.
type industryAugment struct {
	insights            []string
	tierRecommendations map[Tier][]string
	tierRisks           map[Tier][]string
}

var industryAugments = map[string]industryAugment{
	"food-service": {
		insights: []string{
			"Restaurant demand tracks daypart foot traffic more than raw residential density",
		},
		tierRecommendations: map[Tier][]string{
			TierHigh: {
				"Dense dining corridors can still support a distinct cuisine or daypart niche",
			},
		},
		tierRisks: map[Tier][]string{
			TierSaturated: {
				"Food-service failure rates climb sharply in saturated corridors",
			},
		},
	},
	"grocery": {
		insights: []string{
			"Grocery catchment areas are larger than most retail; consider drive-time over radius",
		},
	},
	"retail": {
		insights: []string{
			"Retail clusters benefit from co-location; adjacent stores share foot traffic",
		},
		tierRecommendations: map[Tier][]string{
			TierLow: {
				"Isolated retail struggles without anchor tenants; check for nearby draws",
			},
		},
	},
	"fitness": {
		insights: []string{
			"Fitness memberships are strongly local; most members live within 5 km",
		},
		tierRisks: map[Tier][]string{
			TierHigh: {
				"Budget gym chains compress pricing wherever density is high",
			},
		},
	},
	"healthcare": {
		insights: []string{
			"Healthcare demand is referral-driven; proximity to hospitals matters more than density",
		},
	},
	"lodging": {
		insights: []string{
			"Lodging density near attractions reflects demand peaks, not year-round occupancy",
		},
	},
	"professional-services": {
		insights: []string{
			"Professional services compete on reputation; physical density matters less here",
		},
	},
}

// intentAugments appends intent-specific phrasing to recommendations.
var intentAugments = map[Intent][]string{
	IntentDensity: {
		"Compare this density against two or three candidate areas before deciding",
	},
	IntentCompetitorCount: {
		"Review the strongest competitors' ratings and price levels individually",
	},
	IntentLocationSuitability: {
		"Weigh density alongside rent, access, and visibility; competition is one input",
	},
}
