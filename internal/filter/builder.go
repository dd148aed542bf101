package filter

// Build merges a caller-supplied filter with the named industry preset
// and validates the result. Preset fields apply underneath the user's
// explicit fields: for each type list the non-empty user list wins
// outright, otherwise the preset list is used. The two are never
// concatenated.
//
// An empty or unknown industry tag leaves the user filter as-is apart
// from defaulting. Validation failures return a *ValidationError.
func Build(user QueryFilter, industryTag string) (QueryFilter, error) {
	out := user.Clone()

	if preset, ok := Preset(industryTag); ok {
		if len(out.Types.IncludedTypes) == 0 {
			out.Types.IncludedTypes = append([]string(nil), preset.IncludedTypes...)
		}
		if len(out.Types.ExcludedTypes) == 0 {
			out.Types.ExcludedTypes = append([]string(nil), preset.ExcludedTypes...)
		}
		if len(out.Types.IncludedPrimaryTypes) == 0 {
			out.Types.IncludedPrimaryTypes = append([]string(nil), preset.IncludedPrimaryTypes...)
		}
		if len(out.Types.ExcludedPrimaryTypes) == 0 {
			out.Types.ExcludedPrimaryTypes = append([]string(nil), preset.ExcludedPrimaryTypes...)
		}
	}

	if len(out.OperatingStatus) == 0 {
		out.OperatingStatus = []string{OperatingStatusOperational}
	}

	if err := out.Validate(); err != nil {
		return QueryFilter{}, err
	}
	return out, nil
}
