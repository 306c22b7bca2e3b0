package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/summary"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show positions, realized P/L and win rate",
	Long: `Rebuild the ledger from every entry and summarize it.

Realized P/L, closed trades and win rate only count lots closed inside
the range. Net quantity and average cost always cover the full history.

Examples:
  tradejournal summary --range month
  tradejournal summary --search tsmc --format org`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

var lotsCmd = &cobra.Command{
	Use:   "lots [code]",
	Short: "List closed lots, oldest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLots,
}

var (
	summaryRange  string
	summarySearch string
	summaryFormat string
	lotsRange     string
)

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(lotsCmd)

	summaryCmd.Flags().StringVarP(&summaryRange, "range", "r", "all", "WEEK, MONTH, QUARTER, HALFYEAR, YEAR or ALL")
	summaryCmd.Flags().StringVarP(&summarySearch, "search", "s", "", "match code or name")
	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "table", "table, org or json")
	lotsCmd.Flags().StringVarP(&lotsRange, "range", "r", "all", "WEEK, MONTH, QUARTER, HALFYEAR, YEAR or ALL")
}

func runSummary(cmd *cobra.Command, args []string) error {
	rng, err := summary.ParseRange(summaryRange)
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.journal.Summary(cmd.Context(), a.user, rng)
	if err != nil {
		return err
	}
	p.Instruments = summary.FilterInstruments(p.Instruments, summarySearch)
	summary.SortByExposure(p.Instruments)

	out := cmd.OutOrStdout()
	switch summaryFormat {
	case "org":
		s, err := journal.FormatSummaryOrg(p)
		if err != nil {
			return err
		}
		fmt.Fprint(out, s)
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "table":
		return printSummary(out, p)
	default:
		return fmt.Errorf("unknown format %q", summaryFormat)
	}
}

func printSummary(w io.Writer, p summary.Portfolio) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CODE\tNAME\tNET QTY\tAVG COST\tREALIZED\tCLOSED\tWINS\t")
	for _, r := range p.Instruments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%d\t%d\t\n",
			r.Code, r.Name, strconv.FormatFloat(r.NetQuantity, 'f', -1, 64),
			r.AverageCost, r.RealizedPnL, r.ClosedTrades, r.WinningTrades)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nPeriod:       %s\n", p.Period)
	fmt.Fprintf(w, "Realized P/L: %.2f\n", p.TotalRealizedPnL)
	fmt.Fprintf(w, "Win rate:     %.2f%% (%d/%d)\n", p.WinRate, p.WinningTrades, p.TotalClosedTrades)
	return nil
}

func runLots(cmd *cobra.Command, args []string) error {
	rng, err := summary.ParseRange(lotsRange)
	if err != nil {
		return err
	}
	var code string
	if len(args) == 1 {
		code = args[0]
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	lots, err := a.journal.Lots(cmd.Context(), a.user, code, rng)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLOSED\tCODE\tSIDE\tQTY\tENTRY\tEXIT\tP/L")
	for _, l := range lots {
		side := "LONG"
		if l.Short {
			side = "SHORT"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%.2f\t%.2f\n",
			l.ClosedAt.Format("2006-01-02"), l.Code, side,
			strconv.FormatFloat(l.Quantity, 'f', -1, 64), l.EntryPrice, l.ExitPrice, l.PnL)
	}
	return tw.Flush()
}
