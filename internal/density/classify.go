package density

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

// Tier is the competition tier derived from business density. Tiers are
// ordered: LOW < MODERATE < HIGH < SATURATED.
type Tier int

const (
	TierLow Tier = iota
	TierModerate
	TierHigh
	TierSaturated
)

var tierNames = [...]string{"LOW", "MODERATE", "HIGH", "SATURATED"}

func (t Tier) String() string {
	if t < TierLow || t > TierSaturated {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Tier) UnmarshalJSON(data []byte) error {
	s := string(data)
	for i, name := range tierNames {
		if s == `"`+name+`"` {
			*t = Tier(i)
			return nil
		}
	}
	return eris.Errorf("density: unknown tier %s", s)
}

// Intent is the kind of analysis the caller asked for.
type Intent string

const (
	IntentDensity             Intent = "density"
	IntentCompetitorCount     Intent = "competitor_count"
	IntentLocationSuitability Intent = "location_suitability"
)

// ParseIntent validates an intent tag; an empty tag defaults to density.
func ParseIntent(s string) (Intent, error) {
	switch Intent(s) {
	case "", IntentDensity:
		return IntentDensity, nil
	case IntentCompetitorCount:
		return IntentCompetitorCount, nil
	case IntentLocationSuitability:
		return IntentLocationSuitability, nil
	}
	return "", eris.Errorf("density: unknown analysis intent %q", s)
}

// Context carries the business background the caller supplied alongside
// the query. Industry is an industry preset tag; Description is free text
// and only echoed through to reports.
type Context struct {
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`
}

// Result is the structured classification of one density measurement.
// All four lists are always present; an empty list stays empty rather
// than being omitted.
type Result struct {
	Density         float64  `json:"density"`
	Tier            Tier     `json:"tier"`
	Recommendations []string `json:"recommendations"`
	Risks           []string `json:"risks"`
	Opportunities   []string `json:"opportunities"`
	Insights        []string `json:"insights"`
}

// competitorCountRiskThreshold is the raw count above which the
// competitor-count intent flags a risk regardless of tier.
const competitorCountRiskThreshold = 10

// Classify converts a raw business count within a circular search area
// into a density score and competition tier, with recommendation, risk,
// opportunity, and insight lists assembled from the static tier, industry,
// and intent tables. It is a pure function of its arguments.
func Classify(count int64, radiusMeters float64, intent Intent, bizCtx Context) Result {
	radiusKm := radiusMeters / 1000
	density := float64(count) / (math.Pi * radiusKm * radiusKm)
	tier := tierFor(density)

	base := tierBaselines[tier]
	res := Result{
		Density:         density,
		Tier:            tier,
		Recommendations: append([]string{}, base.recommendations...),
		Risks:           append([]string{}, base.risks...),
		Opportunities:   append([]string{}, base.opportunities...),
		Insights:        append([]string{}, base.insights...),
	}

	res.Insights = append(res.Insights, fmt.Sprintf(
		"%d matching businesses within %.1f km (%.2f per square kilometer)",
		count, radiusKm, density,
	))

	if aug, ok := industryAugments[bizCtx.Industry]; ok {
		res.Insights = append(res.Insights, aug.insights...)
		if extra, ok := aug.tierRecommendations[tier]; ok {
			res.Recommendations = append(res.Recommendations, extra...)
		}
		if extra, ok := aug.tierRisks[tier]; ok {
			res.Risks = append(res.Risks, extra...)
		}
	}

	if phrases, ok := intentAugments[intent]; ok {
		res.Recommendations = append(res.Recommendations, phrases...)
	}
	if intent == IntentCompetitorCount && count > competitorCountRiskThreshold {
		res.Risks = append(res.Risks, fmt.Sprintf(
			"%d direct competitors already operate in this area; expect pressure on pricing and customer acquisition", count,
		))
	}

	return res
}

// tierFor maps a density (businesses per square kilometer) onto the
// competition tiers. Bands are left-closed: a density of exactly 1.0 is
// MODERATE, not LOW.
func tierFor(density float64) Tier {
	switch {
	case density < 1:
		return TierLow
	case density < 5:
		return TierModerate
	case density < 15:
		return TierHigh
	default:
		return TierSaturated
	}
}
