package formula

import "sort"

// Matrix describes the configuration space of a recipe: Require holds the
// setting axes a package id depends on and Options the option axes.
type Matrix struct {
	Require        map[string][]string
	Options        map[string][]string
	DefaultOptions map[string][]string
}

// Combinations returns all cartesian product combinations of the matrix.
// Keys are sorted alphabetically, and combinations are built layer by layer.
// Require fields are joined with "-", then combined with options using "|".
func (m *Matrix) Combinations() []string {
	cartesian := func(kvs map[string][]string) []string {
		if len(kvs) == 0 {
			return nil
		}

		keys := make([]string, 0, len(kvs))
		for k := range kvs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		result := make([]string, len(kvs[keys[0]]))
		copy(result, kvs[keys[0]])

		for i := 1; i < len(keys); i++ {
			values := kvs[keys[i]]
			next := make([]string, 0, len(result)*len(values))
			for _, prev := range result {
				for _, v := range values {
					next = append(next, prev+"-"+v)
				}
			}
			result = next
		}
		return result
	}

	requireCombos := cartesian(m.Require)
	optionsCombos := cartesian(m.Options)

	if len(requireCombos) == 0 {
		return optionsCombos
	}
	if len(optionsCombos) == 0 {
		return requireCombos
	}

	result := make([]string, 0, len(requireCombos)*len(optionsCombos))
	for _, req := range requireCombos {
		for _, opt := range optionsCombos {
			result = append(result, req+"|"+opt)
		}
	}
	return result
}

// CombinationCount returns the total number of cartesian product
// combinations. It returns -1 when the count does not fit in an int.
func (m *Matrix) CombinationCount() int {
	const limit = int(^uint(0) >> 1)
	countPart := func(kvs map[string][]string) int {
		if len(kvs) == 0 {
			return 0
		}
		count := 1
		for _, v := range kvs {
			if len(v) != 0 && count > limit/len(v) {
				return -1
			}
			count *= len(v)
		}
		return count
	}

	requireCount := countPart(m.Require)
	optionsCount := countPart(m.Options)

	switch {
	case requireCount < 0 || optionsCount < 0:
		return -1
	case requireCount == 0:
		return optionsCount
	case optionsCount == 0:
		return requireCount
	case requireCount > limit/optionsCount:
		return -1
	}
	return requireCount * optionsCount
}

// Single returns the matrix holding exactly one configuration.
func Single(require, options map[string]string) Matrix {
	wrap := func(kv map[string]string) map[string][]string {
		if len(kv) == 0 {
			return nil
		}
		out := make(map[string][]string, len(kv))
		for k, v := range kv {
			out[k] = []string{v}
		}
		return out
	}
	return Matrix{Require: wrap(require), Options: wrap(options)}
}

// String returns the first combination, which for a Single matrix is its
// only one.
func (m *Matrix) String() string {
	combos := m.Combinations()
	if len(combos) == 0 {
		return ""
	}
	return combos[0]
}
