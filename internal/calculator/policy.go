package calculator

import "github.com/mmynk/splitgroups/internal/models"

// SplitPolicy is the closed set of ways to divide an expense:
// EqualPolicy or PercentagePolicy.
type SplitPolicy interface {
	Type() models.SplitType
	Compute(total float64) ([]models.Split, error)

	isSplitPolicy()
}

// EqualPolicy splits evenly among Members.
type EqualPolicy struct {
	Members []string
}

func (EqualPolicy) Type() models.SplitType { return models.SplitTypeEqual }

func (p EqualPolicy) Compute(total float64) ([]models.Split, error) {
	return EqualSplit(total, p.Members)
}

func (EqualPolicy) isSplitPolicy() {}

// PercentagePolicy splits by the given Shares.
type PercentagePolicy struct {
	Shares []MemberShare
}

func (PercentagePolicy) Type() models.SplitType { return models.SplitTypePercentage }

func (p PercentagePolicy) Compute(total float64) ([]models.Split, error) {
	return PercentageSplit(total, p.Shares)
}

func (PercentagePolicy) isSplitPolicy() {}

// ComputeSplits applies policy to total.
func ComputeSplits(policy SplitPolicy, total float64) ([]models.Split, error) {
	if policy == nil {
		return nil, invalidf("split policy is required")
	}
	return policy.Compute(total)
}
