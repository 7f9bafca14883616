package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitgroups/internal/scenario"
	"github.com/mmynk/splitgroups/pkg/api"
)

func newBalancesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "balances",
		Short: "Compute group balances from a scenario file",
		Long: `Compute who owes whom for a group described in a YAML scenario file.

The file lists the group's members, its expenses (equal or percentage
splits) and any settlements already paid. The command prints each member's
balance and the payments that would settle the group.

Examples:
  splitgroups balances --file trip.yaml
  splitgroups balances --file trip.yaml --json`,
		Args: cobra.NoArgs,
		RunE: runBalances,
	}
	c.Flags().StringP("file", "f", "", "Path to the scenario YAML file")
	c.Flags().Bool("json", false, "Output JSON")
	_ = c.MarkFlagRequired("file")
	return c
}

func runBalances(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")

	f, err := scenario.Load(path)
	if err != nil {
		return err
	}
	result, err := f.Evaluate()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		resp := &api.GetGroupBalancesResponse{
			GroupId:   result.Group,
			GroupName: result.Group,
			Balances:  make([]*api.Balance, len(result.Balances)),
			Debts:     make([]*api.DebtEdge, len(result.Debts)),
		}
		for i, b := range result.Balances {
			resp.Balances[i] = &api.Balance{
				MemberId:   b.MemberID,
				MemberName: b.MemberName,
				Amount:     b.Amount,
				TotalPaid:  b.TotalPaid,
				TotalShare: b.TotalShare,
			}
		}
		for i, d := range result.Debts {
			resp.Debts[i] = &api.DebtEdge{From: d.From, To: d.To, Amount: d.Amount}
		}
		return writeJSON(out, resp)
	}

	fmt.Fprintf(out, "%s (total %.2f)\n\n", result.Group, result.Total)
	if err := writeBalances(out, result.Balances); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if len(result.Debts) == 0 {
		fmt.Fprintln(out, "Everyone is settled up.")
		return nil
	}
	fmt.Fprintln(out, "Suggested payments:")
	for _, d := range result.Debts {
		fmt.Fprintf(out, "  %s pays %s %.2f\n", d.From, d.To, d.Amount)
	}
	return nil
}
