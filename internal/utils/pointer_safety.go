package utils

// Values dereferences every element of list, skipping nil entries.
func Values[T any](list []*T) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func Ptr[T any](v T) *T {
	return &v
}
