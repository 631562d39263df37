package enums

import "fmt"

// ItemStatus marks whether a deposited item is listed or soft-deleted.
// "Sold out" is derived from the quantity columns, never persisted here.
type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusRemoved   ItemStatus = "removed"
)

var validItemStatuses = []ItemStatus{
	ItemStatusAvailable,
	ItemStatusRemoved,
}

// String implements fmt.Stringer.
func (i ItemStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemStatus.
func (i ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
