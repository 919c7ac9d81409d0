package report

// MergeByKey concatenates ordered record sequences, keeping only the first
// occurrence of each key. Later duplicates are dropped regardless of which
// sequence they came from.
func MergeByKey[T any](key func(T) string, seqs ...[]T) []T {
	seen := make(map[string]bool)
	var merged []T
	for _, seq := range seqs {
		for _, item := range seq {
			k := key(item)
			if seen[k] {
				continue
			}
			seen[k] = true
			merged = append(merged, item)
		}
	}
	return merged
}
