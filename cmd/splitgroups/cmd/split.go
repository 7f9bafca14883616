package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitgroups/internal/calculator"
	"github.com/mmynk/splitgroups/internal/models"
	"github.com/mmynk/splitgroups/pkg/api"
)

func newSplitCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "split",
		Short: "Split one expense without saving it",
		Long: `Split one expense equally or by percentage and print each member's share.

Amounts are rounded to cents; leftover cents go to the first members listed.`,
	}

	equal := &cobra.Command{
		Use:   "equal",
		Short: "Split an amount evenly",
		Long: `Split an amount evenly among members.

Examples:
  splitgroups split equal --amount 120.50 --member alice --member bob --member charlie`,
		Args: cobra.NoArgs,
		RunE: runSplitEqual,
	}
	equal.Flags().Float64("amount", 0, "Total amount to split")
	equal.Flags().StringArrayP("member", "m", nil, "Member ID (repeatable)")
	equal.Flags().Bool("json", false, "Output JSON")
	_ = equal.MarkFlagRequired("amount")
	_ = equal.MarkFlagRequired("member")

	percentage := &cobra.Command{
		Use:   "percentage",
		Short: "Split an amount by percentages",
		Long: `Split an amount by per-member percentages. Percentages must total 100
(within 0.01).

Examples:
  splitgroups split percentage --amount 85.30 --share alice=60 --share diana=40`,
		Args: cobra.NoArgs,
		RunE: runSplitPercentage,
	}
	percentage.Flags().Float64("amount", 0, "Total amount to split")
	percentage.Flags().StringArrayP("share", "s", nil, "Member share as id=percent (repeatable)")
	percentage.Flags().Bool("json", false, "Output JSON")
	_ = percentage.MarkFlagRequired("amount")
	_ = percentage.MarkFlagRequired("share")

	c.AddCommand(equal, percentage)
	return c
}

func runSplitEqual(cmd *cobra.Command, _ []string) error {
	amount, _ := cmd.Flags().GetFloat64("amount")
	members, _ := cmd.Flags().GetStringArray("member")

	return printSplits(cmd, calculator.EqualPolicy{Members: members}, amount)
}

func runSplitPercentage(cmd *cobra.Command, _ []string) error {
	amount, _ := cmd.Flags().GetFloat64("amount")
	raw, _ := cmd.Flags().GetStringArray("share")

	shares := make([]calculator.MemberShare, len(raw))
	for i, r := range raw {
		share, err := parseShare(r)
		if err != nil {
			return err
		}
		shares[i] = share
	}
	return printSplits(cmd, calculator.PercentagePolicy{Shares: shares}, amount)
}

// parseShare parses "id=percent".
func parseShare(s string) (calculator.MemberShare, error) {
	id, pct, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(id) == "" {
		return calculator.MemberShare{}, fmt.Errorf("invalid share %q: want id=percent", s)
	}
	p, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(pct), "%"), 64)
	if err != nil {
		return calculator.MemberShare{}, fmt.Errorf("invalid share %q: %w", s, err)
	}
	return calculator.MemberShare{MemberID: strings.TrimSpace(id), Percentage: p}, nil
}

func printSplits(cmd *cobra.Command, policy calculator.SplitPolicy, amount float64) error {
	splits, err := calculator.ComputeSplits(policy, amount)
	if err != nil {
		return fmt.Errorf("cannot split %.2f: %w", amount, err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out := &api.PreviewSplitResponse{Splits: make([]*api.Split, len(splits))}
		for i, s := range splits {
			out.Splits[i] = &api.Split{MemberId: s.MemberID, Amount: s.Amount, Percentage: s.Percentage}
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}
	return writeSplits(cmd.OutOrStdout(), splits, policy.Type() == models.SplitTypePercentage)
}
