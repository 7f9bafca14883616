package calculator

import (
	"math"

	"github.com/mmynk/splitgroups/internal/models"
)

// MemberShare assigns a percentage of an expense to one member.
type MemberShare struct {
	MemberID   string
	Percentage float64
}

// EqualSplit divides total evenly among members.
//
// Arithmetic is done in cents: every member gets floor(cents/n) and the
// first cents%n members, in the order given, get one extra cent. The
// returned splits therefore sum exactly to total.
//
// Example: 120.50 among three members yields 40.17, 40.17, 40.16.
func EqualSplit(total float64, members []string) ([]models.Split, error) {
	if len(members) == 0 {
		return nil, invalidf("must have at least one member")
	}
	cents, err := amountToCents(total)
	if err != nil {
		return nil, err
	}
	if err := checkMemberIDs(members); err != nil {
		return nil, err
	}

	n := int64(len(members))
	base := cents / n
	remainder := cents % n

	splits := make([]models.Split, len(members))
	for i, id := range members {
		share := base
		if int64(i) < remainder {
			share++
		}
		splits[i] = models.Split{MemberID: id, Amount: fromCents(share)}
	}
	return splits, nil
}

// PercentageSplit divides total according to per-member percentages.
//
// Percentages must each lie in [0,100] and sum to 100 within Tolerance.
// Each member's amount is total × percentage / 100, allocated in cents with
// the largest-remainder method so that the amounts sum exactly to total.
// The recorded percentage on each split equals the input.
func PercentageSplit(total float64, shares []MemberShare) ([]models.Split, error) {
	if len(shares) == 0 {
		return nil, invalidf("must have at least one member")
	}
	cents, err := amountToCents(total)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(shares))
	weights := make([]float64, len(shares))
	var sum float64
	for i, s := range shares {
		if math.IsNaN(s.Percentage) || s.Percentage < 0 {
			return nil, invalidf("percentage for member %s must not be negative", s.MemberID)
		}
		if s.Percentage > 100 {
			return nil, invalidf("percentage for member %s must not exceed 100", s.MemberID)
		}
		ids[i] = s.MemberID
		weights[i] = s.Percentage
		sum += s.Percentage
	}
	if err := checkMemberIDs(ids); err != nil {
		return nil, err
	}
	if !withinTolerance(sum, 100) {
		return nil, invalidf("percentages must total 100%%, got %.2f%%", sum)
	}

	amounts := allocate(cents, weights)
	splits := make([]models.Split, len(shares))
	for i, s := range shares {
		splits[i] = models.Split{
			MemberID:   s.MemberID,
			Amount:     fromCents(amounts[i]),
			Percentage: s.Percentage,
		}
	}
	return splits, nil
}

func checkMemberIDs(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return invalidf("member id must not be empty")
		}
		if _, dup := seen[id]; dup {
			return invalidf("duplicate member %s", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
