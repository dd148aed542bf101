package filter

// typeSynonyms maps deprecated type tags to their current equivalents.
// The aggregation service rejects some legacy tags outright; repairing
// them is cheaper than failing the whole query.
var typeSynonyms = map[string]string{
	"grocery_or_supermarket": "grocery_store",
	"lodging":                "hotel",
	"drugstore":              "pharmacy",
	"health_club":            "fitness_center",
	"auto_repair":            "car_repair",
}

// primaryTypeVocabulary is the set of primary-type tags the service
// accepts. Primary-type tags outside this set cause capacity-style
// rejections on broad queries and are dropped during filter repair.
var primaryTypeVocabulary = map[string]struct{}{}

func init() {
	accepted := []string{
		"restaurant", "cafe", "bakery", "bar", "meal_takeaway", "meal_delivery",
		"grocery_store", "supermarket", "convenience_store",
		"clothing_store", "shoe_store", "jewelry_store", "gift_shop",
		"department_store", "shopping_mall",
		"gym", "fitness_center", "yoga_studio", "sports_club",
		"doctor", "dentist", "physiotherapist", "medical_lab", "hospital", "pharmacy",
		"beauty_salon", "hair_salon", "nail_salon", "spa", "barber_shop",
		"car_repair", "car_dealer", "car_wash", "auto_parts_store", "gas_station",
		"hotel", "motel", "bed_and_breakfast", "guest_house",
		"lawyer", "accounting", "insurance_agency", "real_estate_agency", "consultant",
		"movie_theater", "bowling_alley", "amusement_center", "night_club", "karaoke",
		"bank", "atm", "school", "library", "park",
	}
	for _, t := range accepted {
		primaryTypeVocabulary[t] = struct{}{}
	}
}

// RepairTypes normalizes known type-tag synonyms across all four lists
// and drops primary-type tags outside the accepted vocabulary. It is the
// one-time repair applied when radius degradation alone cannot get a
// query under the service's place cap.
func RepairTypes(t TypeFilter) TypeFilter {
	out := TypeFilter{
		IncludedTypes: normalizeTags(t.IncludedTypes),
		ExcludedTypes: normalizeTags(t.ExcludedTypes),
	}
	out.IncludedPrimaryTypes = dropUnknownPrimary(normalizeTags(t.IncludedPrimaryTypes))
	out.ExcludedPrimaryTypes = dropUnknownPrimary(normalizeTags(t.ExcludedPrimaryTypes))
	return out
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if current, ok := typeSynonyms[tag]; ok {
			tag = current
		}
		out = append(out, tag)
	}
	return out
}

func dropUnknownPrimary(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := tags[:0]
	for _, tag := range tags {
		if _, ok := primaryTypeVocabulary[tag]; ok {
			out = append(out, tag)
		}
	}
	return out
}
