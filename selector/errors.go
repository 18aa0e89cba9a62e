package selector

import "fmt"

// InsufficientDataError means a selector was asked for items from an empty list
type InsufficientDataError struct {
	Requested int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: requested %d items, %d available", e.Requested, e.Available)
}
