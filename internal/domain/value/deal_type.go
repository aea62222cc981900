package value

import "strings"

type DealType string

const (
	DealTypeFixed    DealType = "Fixed"
	DealTypeTracker  DealType = "Tracker"
	DealTypeVariable DealType = "Variable"
)

func (t DealType) String() string {
	return string(t)
}

func (t DealType) Valid() bool {
	switch t {
	case DealTypeFixed, DealTypeTracker, DealTypeVariable:
		return true
	}
	return false
}

// ParseDealType matches case-insensitively; ok is false for unknown values.
func ParseDealType(s string) (DealType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed":
		return DealTypeFixed, true
	case "tracker":
		return DealTypeTracker, true
	case "variable":
		return DealTypeVariable, true
	}
	return "", false
}
