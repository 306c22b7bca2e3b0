package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/ledger"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every entry as CSV",
	Long: `Write the journal's entries as CSV with the header
id,code,name,direction,quantity,price,date,seq,reason

Examples:
  tradejournal export > journal.csv
  tradejournal export -o journal.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Load entries from CSV",
	Long: `Merge entries from a CSV file into the journal. Rows whose id already
exists replace the stored entry; rows without an id are added. With
--replace the journal is emptied first.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	exportOutput  string
	importReplace bool
)

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "discard existing entries first")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.journal.Entries(cmd.Context(), a.user)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		if err := journal.WriteCSV(cmd.OutOrStdout(), entries); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		return nil
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOutput, err)
	}
	if err := writeCSVAndClose(f, entries); err != nil {
		return fmt.Errorf("export %s: %w", exportOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d entries to %s\n", len(entries), exportOutput)
	return nil
}

// writeCSVAndClose closes w even when writing fails; a close error is
// reported because it can mean the data never reached disk.
func writeCSVAndClose(w io.WriteCloser, entries []ledger.Entry) error {
	if err := journal.WriteCSV(w, entries); err != nil {
		w.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := journal.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.journal.Import(cmd.Context(), a.user, entries, importReplace)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d entries from %s\n", n, args[0])
	return nil
}
