package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/ledger"
	"github.com/rustyeddy/tradejournal/summary"
)

var entryCmd = &cobra.Command{
	Use:     "entry",
	Aliases: []string{"entries", "e"},
	Short:   "Add, edit, delete and list journal entries",
	Long: `Manage the journal's buy and sell entries.

Subcommands:
  add     - Record a new entry
  edit    - Replace an existing entry
  delete  - Remove an entry
  show    - Print one entry as Org
  list    - List entries, newest first
  today   - Entries dated today
  day     - Entries dated on a specific day

Examples:
  tradejournal entry add --code 2330 --name TSMC --dir buy --qty 1000 --price 580
  tradejournal entry list --range month --search tsmc
  tradejournal entry day 2024-01-15`,
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new entry",
	Args:  cobra.NoArgs,
	RunE:  runEntryAdd,
}

var entryEditCmd = &cobra.Command{
	Use:   "edit <entry-id>",
	Short: "Replace an existing entry; ID and sequence are kept",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryEdit,
}

var entryDeleteCmd = &cobra.Command{
	Use:     "delete <entry-id>",
	Aliases: []string{"rm"},
	Short:   "Remove an entry",
	Args:    cobra.ExactArgs(1),
	RunE:    runEntryDelete,
}

var entryShowCmd = &cobra.Command{
	Use:   "show <entry-id>",
	Short: "Print one entry as Org",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryShow,
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries, newest first",
	Args:  cobra.NoArgs,
	RunE:  runEntryList,
}

var entryTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List entries dated today",
	Args:  cobra.NoArgs,
	RunE:  runEntryToday,
}

var entryDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List entries dated on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryDay,
}

type entryFlags struct {
	code, name, dir, date, reason string
	qty, price                    float64
}

var (
	addFlags  entryFlags
	editFlags entryFlags

	listRange  string
	listSearch string
	listOrg    bool
)

func (f *entryFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.code, "code", "", "instrument code (required)")
	fs.StringVar(&f.name, "name", "", "instrument name (required)")
	fs.StringVar(&f.dir, "dir", "", "BUY or SELL (required)")
	fs.Float64Var(&f.qty, "qty", 0, "quantity, at least 1 (required)")
	fs.Float64Var(&f.price, "price", 0, "price per unit (required)")
	fs.StringVar(&f.date, "date", "", "trade date YYYY-MM-DD (default today)")
	fs.StringVar(&f.reason, "reason", "", "free-form note")
	for _, name := range []string{"code", "name", "dir", "qty", "price"} {
		cmd.MarkFlagRequired(name)
	}
}

func (f entryFlags) entry() (ledger.Entry, error) {
	dir, err := ledger.ParseDirection(f.dir)
	if err != nil {
		return ledger.Entry{}, err
	}
	e := ledger.Entry{
		Code:      f.code,
		Name:      f.name,
		Direction: dir,
		Quantity:  f.qty,
		Price:     f.price,
		Reason:    f.reason,
	}
	if f.date != "" {
		if e.Date, err = journal.ParseDay(f.date); err != nil {
			return ledger.Entry{}, err
		}
	}
	return e, nil
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd, entryEditCmd, entryDeleteCmd, entryShowCmd,
		entryListCmd, entryTodayCmd, entryDayCmd)

	addFlags.bind(entryAddCmd)
	editFlags.bind(entryEditCmd)

	entryListCmd.Flags().StringVarP(&listRange, "range", "r", "all", "WEEK, MONTH, QUARTER, HALFYEAR, YEAR or ALL")
	entryListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "match code or name")
	entryListCmd.Flags().BoolVar(&listOrg, "org", false, "print as Org headings")
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	e, err := addFlags.entry()
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	e, err = a.journal.Add(cmd.Context(), a.user, e)
	if err != nil {
		return fmt.Errorf("add entry: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), journal.FormatEntryOrg(e))
	return nil
}

func runEntryEdit(cmd *cobra.Command, args []string) error {
	e, err := editFlags.entry()
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	e, err = a.journal.Update(cmd.Context(), a.user, args[0], e)
	if err != nil {
		return fmt.Errorf("edit entry: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), journal.FormatEntryOrg(e))
	return nil
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.journal.Delete(cmd.Context(), a.user, args[0]); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
	return nil
}

func runEntryShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	e, err := a.journal.Get(cmd.Context(), a.user, args[0])
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), journal.FormatEntryOrg(e))
	return nil
}

func runEntryList(cmd *cobra.Command, args []string) error {
	rng, err := summary.ParseRange(listRange)
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.journal.History(cmd.Context(), a.user, rng, listSearch)
	if err != nil {
		return err
	}
	if listOrg {
		fmt.Fprint(cmd.OutOrStdout(), journal.FormatEntriesOrg(entries))
		return nil
	}
	return printEntries(cmd.OutOrStdout(), entries)
}

func runEntryToday(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	return printDay(cmd, a, a.journal.Now().Format(time.DateOnly))
}

func runEntryDay(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	return printDay(cmd, a, args[0])
}

func printDay(cmd *cobra.Command, a *app, day string) error {
	start, end, err := journal.DayBounds(day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	entries, err := a.journal.Between(cmd.Context(), a.user, start, end)
	if err != nil {
		return fmt.Errorf("query entries: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), journal.FormatEntriesOrg(entries))
	return nil
}

func printEntries(w io.Writer, entries []ledger.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDIR\tCODE\tNAME\tQTY\tPRICE\tID")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			e.Date.Format(time.DateOnly), e.Direction, e.Code, e.Name,
			strconv.FormatFloat(e.Quantity, 'f', -1, 64), e.Price, e.ID)
	}
	return tw.Flush()
}
