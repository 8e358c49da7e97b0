package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/dto"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func printTransfers(w io.Writer, transfers []dto.TransferResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tAMOUNT\tRECIPIENT\tCREATED")
	for _, t := range transfers {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\n",
			t.ID,
			t.Status,
			t.Amount.StringFixed(2),
			t.Currency,
			truncate(t.Recipient.Name, 24),
			t.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return tw.Flush()
}

func printAccounts(w io.Writer, accounts []dto.AccountResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tNUMBER\tBALANCE")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, truncate(a.Type, 20), a.Number, a.Balance.StringFixed(2))
	}
	return tw.Flush()
}
