package query

// Join returns a copy of every left record with the first right record whose rightKey equals
// the left record's leftKey nested under the field as. Left records without a match are kept
// and get a nil value under as.
func Join(left []Record, leftKey FieldPath, right []Record, rightKey FieldPath, as string) ([]Record, error) {
	if !leftKey.Valid() {
		return nil, newConfigurationError("join key", leftKey, "malformed field path")
	}
	if !rightKey.Valid() {
		return nil, newConfigurationError("join key", rightKey, "malformed field path")
	}
	if as == "" {
		return nil, newConfigurationError("join alias", "", "name is required")
	}

	lookup := make(map[string]Record, len(right))
	for _, r := range right {
		if key, ok := KeyOf(r.Get(rightKey)); ok {
			if _, exists := lookup[key]; !exists {
				lookup[key] = r
			}
		}
	}

	result := make([]Record, len(left))
	for i, l := range left {
		joined := l.Clone()
		joined[as] = nil
		if key, ok := KeyOf(l.Get(leftKey)); ok {
			if match, found := lookup[key]; found {
				joined[as] = match
			}
		}
		result[i] = joined
	}
	return result, nil
}

// Values collects the keys of the values at path, skipping records without one. It is used to
// turn a filtered related collection into a set for an InSet filter.
func Values(records []Record, path FieldPath) []string {
	values := make([]string, 0, len(records))
	for _, r := range records {
		if key, ok := KeyOf(r.Get(path)); ok {
			values = append(values, key)
		}
	}
	return values
}
