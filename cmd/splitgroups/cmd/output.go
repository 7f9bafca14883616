package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mmynk/splitgroups/internal/models"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSplits(w io.Writer, splits []models.Split, withPercentage bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if withPercentage {
		fmt.Fprintln(tw, "MEMBER\tPERCENT\tAMOUNT")
		for _, s := range splits {
			fmt.Fprintf(tw, "%s\t%.2f%%\t%.2f\n", s.MemberID, s.Percentage, s.Amount)
		}
	} else {
		fmt.Fprintln(tw, "MEMBER\tAMOUNT")
		for _, s := range splits {
			fmt.Fprintf(tw, "%s\t%.2f\n", s.MemberID, s.Amount)
		}
	}
	return tw.Flush()
}

func writeBalances(w io.Writer, balances []models.Balance) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MEMBER\tPAID\tSHARE\tBALANCE\t")
	for _, b := range balances {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%+.2f\t%s\n", b.MemberName, b.TotalPaid, b.TotalShare, b.Amount, status(b.Amount))
	}
	return tw.Flush()
}

func status(amount float64) string {
	switch {
	case amount >= 0.005:
		return "is owed"
	case amount <= -0.005:
		return "owes"
	default:
		return "settled up"
	}
}
