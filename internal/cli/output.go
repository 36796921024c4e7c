package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
)

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes tab separated rows as aligned columns under a styled header.
type Table struct {
	w *tabwriter.Writer
}

func NewTable(w io.Writer, headers ...string) *Table {
	t := &Table{w: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}

	styled := make([]string, 0, len(headers))
	for _, h := range headers {
		styled = append(styled, HeaderStyle.Render(h))
	}
	fmt.Fprintln(t.w, strings.Join(styled, "\t"))
	return t
}

func (t *Table) Row(cells ...string) {
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

func (t *Table) Flush() error {
	return t.w.Flush()
}

// FormatError renders err for the terminal; validation failures list one field per line.
func FormatError(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		var b strings.Builder
		b.WriteString(ErrorStyle.Render("Validation failed:"))
		for _, fe := range ve.Errors {
			fmt.Fprintf(&b, "\n  %s: %s", fe.Field, fe.Message)
		}
		return b.String()
	}

	switch {
	case errors.Is(err, models.ErrInternal):
		return ErrorStyle.Render("Internal error: ") + err.Error()
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrInvalidTarget):
		return ErrorStyle.Render(err.Error())
	}
	return ErrorStyle.Render("Error: ") + err.Error()
}
