package ui

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/tokendesk/internal/token"
)

const unset = "—"

// MetadataBlock renders token metadata. Fields whose read failed show a
// dash; account may be empty when no wallet is connected.
func MetadataBlock(tokenAddr, account string, md *token.Metadata) string {
	str := func(p *string) string {
		if p == nil {
			return unset
		}
		return *p
	}

	decimals, supply := unset, unset
	if md.Decimals != nil {
		decimals = fmt.Sprintf("%d", *md.Decimals)
	}
	if md.TotalSupplyDisplay != nil {
		supply = md.TotalSupplyDisplay.String()
		if md.Symbol != nil {
			supply += " " + *md.Symbol
		}
	}
	if account == "" {
		account = "not connected"
	}

	return KeyValueBlock("Token", [][2]string{
		{"Contract", tokenAddr},
		{"Account", account},
		{"Name", str(md.Name)},
		{"Symbol", str(md.Symbol)},
		{"Decimals", decimals},
		{"Total supply", supply},
	})
}

// MetadataFailures lists one failure line per metadata read that failed,
// in a stable order.
func MetadataFailures(md *token.Metadata) []string {
	var out []string
	for _, m := range []string{"name", "symbol", "decimals", "totalSupply"} {
		if err, ok := md.Errs[m]; ok {
			out = append(out, Failure(m, err))
		}
	}
	return out
}

// HolderTable renders the current holders of a report. Unknown balances are
// listed after them so a failed read is not mistaken for a zero balance.
func HolderTable(report *token.HolderReport) string {
	t := NewTable([]Column{
		{Title: "#", Width: 4},
		{Title: "Holder", Width: 42},
		{Title: "Status", Width: 10},
	})
	current := report.Set()
	for i, a := range current {
		t.AddRow(Row{fmt.Sprintf("%d", i+1), a, "current"})
	}
	for _, u := range report.Unknown {
		t.AddRow(Row{"?", u.Address, "unknown"})
	}

	var sb strings.Builder
	sb.WriteString(t.Render())
	summary := fmt.Sprintf("%d current · %d zero · %d unknown · %d all-time",
		len(current), len(report.Zero), len(report.Unknown), len(report.AllTime))
	sb.WriteString(Meta(summary) + "\n")
	return sb.String()
}
