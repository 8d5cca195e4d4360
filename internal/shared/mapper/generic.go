// Package mapper holds small generic helpers for converting between persistence
// models and domain entities.
package mapper

import "fmt"

// MapSlice applies mapFunc to each element. A nil input yields nil.
func MapSlice[T any, R any](items []T, mapFunc func(T) R) []R {
	if items == nil {
		return nil
	}

	result := make([]R, 0, len(items))
	for _, item := range items {
		result = append(result, mapFunc(item))
	}
	return result
}

// MapSliceWithError applies mapFunc to each element and stops at the first failure,
// reporting the index of the element that could not be mapped.
func MapSliceWithError[T any, R any](items []T, mapFunc func(T) (R, error)) ([]R, error) {
	if items == nil {
		return nil, nil
	}

	result := make([]R, 0, len(items))
	for i, item := range items {
		mapped, err := mapFunc(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		result = append(result, mapped)
	}
	return result, nil
}
