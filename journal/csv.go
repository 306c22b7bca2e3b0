package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/ledger"
)

// CSVHeader is the column layout written by WriteCSV.
var CSVHeader = []string{"id", "code", "name", "direction", "quantity", "price", "date", "seq", "reason"}

var requiredColumns = []string{"code", "direction", "quantity", "price", "date"}

// WriteCSV writes entries with a header row.
func WriteCSV(w io.Writer, entries []ledger.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		err := cw.Write([]string{
			e.ID,
			e.Code,
			e.Name,
			string(e.Direction),
			f(e.Quantity),
			f(e.Price),
			e.Date.Format(time.DateOnly),
			strconv.FormatInt(e.Seq, 10),
			e.Reason,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses entries written by WriteCSV. Columns are matched by
// header name; id, name, seq and reason are optional.
func ReadCSV(r io.Reader) ([]ledger.Entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: missing header")
		}
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", name)
		}
	}

	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []ledger.Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		e := ledger.Entry{
			ID:     get(rec, "id"),
			Code:   get(rec, "code"),
			Name:   get(rec, "name"),
			Reason: get(rec, "reason"),
		}
		if e.Direction, err = ledger.ParseDirection(get(rec, "direction")); err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if e.Quantity, err = strconv.ParseFloat(get(rec, "quantity"), 64); err != nil {
			return nil, fmt.Errorf("csv line %d: quantity: %w", line, err)
		}
		if e.Price, err = strconv.ParseFloat(get(rec, "price"), 64); err != nil {
			return nil, fmt.Errorf("csv line %d: price: %w", line, err)
		}
		if e.Date, err = ParseDay(get(rec, "date")); err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if s := get(rec, "seq"); s != "" {
			if e.Seq, err = strconv.ParseInt(s, 10, 64); err != nil {
				return nil, fmt.Errorf("csv line %d: seq: %w", line, err)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
