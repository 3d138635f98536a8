package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const csvDateLayout = "2006-01-02"

var (
	transactionColumns = []string{"id", "amount", "description", "category", "type", "date"}
	categoryColumns    = []string{"id", "name", "color", "icon", "is_default", "is_hidden"}
	budgetColumns      = []string{"id", "category", "amount", "spent_amount", "remaining_amount", "percentage_used", "period_start", "period_end"}
	goalColumns        = []string{"id", "name", "target_amount", "current_amount", "deadline"}
)

// RenderCSV renders the dataset as sectioned CSV text: one labeled
// section per included record type, a comment line naming the type, a
// header row of upper-cased column names, and a blank line between
// sections. Field escaping follows standard CSV quoting.
func RenderCSV(d Dataset) (string, error) {
	var buf bytes.Buffer
	first := true

	section := func(name string, columns []string, rows [][]string) error {
		if !first {
			buf.WriteString("\n")
		}
		first = false
		buf.WriteString("# " + name + "\n")

		w := csv.NewWriter(&buf)
		if err := w.Write(headerRow(columns)); err != nil {
			return err
		}
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}

	if d.Transactions != nil {
		rows := make([][]string, len(d.Transactions))
		for i, t := range d.Transactions {
			rows[i] = []string{
				strconv.FormatInt(t.ID, 10),
				centsToDecimal(t.Amount.Cents),
				t.Description,
				t.CategoryName,
				string(t.Type),
				t.Date.Format(csvDateLayout),
			}
		}
		if err := section("Transactions", transactionColumns, rows); err != nil {
			return "", fmt.Errorf("format transactions section: %w", err)
		}
	}

	if d.Categories != nil {
		rows := make([][]string, len(d.Categories))
		for i, c := range d.Categories {
			rows[i] = []string{
				strconv.FormatInt(c.ID, 10),
				c.Name,
				c.Color,
				c.Icon,
				strconv.FormatBool(c.IsDefault),
				strconv.FormatBool(c.IsHidden),
			}
		}
		if err := section("Categories", categoryColumns, rows); err != nil {
			return "", fmt.Errorf("format categories section: %w", err)
		}
	}

	if d.Budgets != nil {
		rows := make([][]string, len(d.Budgets))
		for i, b := range d.Budgets {
			rows[i] = []string{
				strconv.FormatInt(b.ID, 10),
				b.CategoryName,
				centsToDecimal(b.Amount.Cents),
				centsToDecimal(b.SpentCents),
				centsToDecimal(b.RemainingCents),
				strconv.FormatFloat(b.PercentageUsed, 'f', 1, 64),
				b.PeriodStart.Format(csvDateLayout),
				b.PeriodEnd.Format(csvDateLayout),
			}
		}
		if err := section("Budgets", budgetColumns, rows); err != nil {
			return "", fmt.Errorf("format budgets section: %w", err)
		}
	}

	if d.Goals != nil {
		rows := make([][]string, len(d.Goals))
		for i, g := range d.Goals {
			deadline := ""
			if !g.Deadline.IsZero() {
				deadline = g.Deadline.Format(csvDateLayout)
			}
			rows[i] = []string{
				strconv.FormatInt(g.ID, 10),
				g.Name,
				centsToDecimal(g.TargetAmount.Cents),
				centsToDecimal(g.CurrentAmount.Cents),
				deadline,
			}
		}
		if err := section("Goals", goalColumns, rows); err != nil {
			return "", fmt.Errorf("format goals section: %w", err)
		}
	}

	return buf.String(), nil
}

// headerRow upper-cases column names and replaces underscores with
// spaces: "spent_amount" becomes "SPENT AMOUNT".
func headerRow(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = strings.ToUpper(strings.ReplaceAll(c, "_", " "))
	}
	return out
}

// centsToDecimal renders minor currency units as a fixed 2-decimal
// string without a currency symbol.
func centsToDecimal(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// ValidateCSVContent rejects CSV text that cannot contain a header and
// at least one data row.
func ValidateCSVContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("csv content is empty")
	}
	lines := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	if lines < 2 {
		return errors.New("csv content must contain a header and at least one data row")
	}
	return nil
}
