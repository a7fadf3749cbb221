package utils

func CopySlice[T any](s []T) []T {
	sliceCopy := make([]T, len(s))
	copy(sliceCopy, s)

	return sliceCopy
}

func MapSliceIndexed[T any, U any](s []T, mapper func(e T, i int) U) []U {
	result := make([]U, len(s))

	for i, e := range s {
		result[i] = mapper(e, i)
	}

	return result
}
