package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MOYARU/normalizeurl/internal/app/batch"
	"github.com/MOYARU/normalizeurl/internal/app/ui"
	msges "github.com/MOYARU/normalizeurl/internal/messages"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", errors.New(msges.GetUIMessage("UnknownFormat", s))
}

// WriteResults renders results to w in the given format. Colours are only
// applied to text output.
func WriteResults(w io.Writer, format Format, results []batch.Result, palette ui.Palette) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, results)
	case FormatCSV:
		return writeCSV(w, results)
	default:
		return writeText(w, results, palette)
	}
}

// writeText prints one normalized URL per line; blank inputs produce nothing.
func writeText(w io.Writer, results []batch.Result, palette ui.Palette) error {
	for _, r := range results {
		if r.Skipped {
			continue
		}
		color := ui.ColorGray
		if r.Changed {
			color = ui.ColorGreen
		}
		if _, err := fmt.Fprintln(w, palette.Paint(color, r.Normalized)); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, results []batch.Result) error {
	if results == nil {
		results = []batch.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(results)
}

func writeCSV(w io.Writer, results []batch.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"line", "source_url", "normalized_url", "changed", "domain"}); err != nil {
		return err
	}
	for _, r := range results {
		if r.Skipped {
			continue
		}
		rec := []string{strconv.Itoa(r.Line), r.Input, r.Normalized, strconv.FormatBool(r.Changed), r.Domain}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrintSummary writes the batch counters, typically to stderr.
func PrintSummary(w io.Writer, sum batch.Summary, palette ui.Palette) {
	fmt.Fprintf(w, "\n%s\n", palette.Paint(ui.ColorWhite, msges.GetUIMessage("SummaryTitle")))
	fmt.Fprintf(w, " - %s\n", msges.GetUIMessage("SummaryTotal", sum.Total))
	fmt.Fprintf(w, " - %s\n", palette.Paint(ui.ColorGreen, msges.GetUIMessage("SummaryChanged", sum.Changed)))
	fmt.Fprintf(w, " - %s\n", palette.Paint(ui.ColorGray, msges.GetUIMessage("SummaryUnchanged", sum.Unchanged)))
	if sum.Skipped > 0 {
		fmt.Fprintf(w, " - %s\n", palette.Paint(ui.ColorYellow, msges.GetUIMessage("SummarySkipped", sum.Skipped)))
	}
	if sum.Deduped > 0 {
		fmt.Fprintf(w, " - %s\n", palette.Paint(ui.ColorYellow, msges.GetUIMessage("SummaryDeduped", sum.Deduped)))
	}
}
