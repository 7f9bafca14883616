package models

import "fmt"

// SplitType tags how an expense is divided among members.
type SplitType string

const (
	// SplitTypeEqual divides the amount evenly.
	SplitTypeEqual SplitType = "equal"
	// SplitTypePercentage divides the amount by per-member percentages.
	SplitTypePercentage SplitType = "percentage"
)

// ParseSplitType converts a wire or file value into a SplitType.
func ParseSplitType(s string) (SplitType, error) {
	switch SplitType(s) {
	case SplitTypeEqual, SplitTypePercentage:
		return SplitType(s), nil
	default:
		return "", fmt.Errorf("unknown split type %q", s)
	}
}

// Expense is a payment made by one member on behalf of a group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is the human-readable label (e.g., "Dinner at Beach Restaurant").
	Description string

	// Amount is the total paid. Always positive.
	Amount float64

	// PaidBy is the ID of the member who paid. Must belong to the group.
	PaidBy string

	// SplitType is the policy used to compute Splits.
	SplitType SplitType

	// Splits are the per-member shares. Their amounts sum to Amount
	// within 0.01.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Split is one member's share of an expense.
type Split struct {
	// MemberID is the member owing this share.
	MemberID string

	// Amount is the share in currency units.
	Amount float64

	// Percentage is the member's share in [0,100]. Only meaningful when
	// the parent expense uses SplitTypePercentage; zero otherwise.
	Percentage float64
}
