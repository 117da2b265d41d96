package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arnavshah/vendor-match-api/pkg/scorer"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <budget|price|capacity> <text>",
	Short: "Show how free text is normalized",
	Long: `Run a budget, vendor price or capacity string through the normalizer.

Examples:
  vendorctl parse budget "₹20-30 Lakhs"
  vendorctl parse price "₹1,800 per plate"
  vendorctl parse capacity "Multiple events"`,
	Args:      cobra.MinimumNArgs(2),
	ValidArgs: []string{"budget", "price", "capacity"},
	RunE:      runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	text := strings.Join(args[1:], " ")

	var result interface{}
	switch args[0] {
	case "budget":
		b := scorer.ParseBudgetRange(text)
		result = struct {
			scorer.BudgetRange
			Bracket string `json:"bracket"`
		}{b, scorer.BracketFor(b.Avg).String()}
	case "price":
		result = scorer.ParseVendorPrice(text)
	case "capacity":
		result = scorer.ParseCapacity(text)
	default:
		return fmt.Errorf("unknown field %q: want budget, price or capacity", args[0])
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
