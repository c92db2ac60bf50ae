package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hray3182/LedgerLine/internal/models"
	"github.com/hray3182/LedgerLine/internal/notify"
)

//go:embed templates/*.html
var templatesFS embed.FS

var emailTemplates = template.Must(
	template.New("").Funcs(template.FuncMap{"money": formatMoney}).ParseFS(templatesFS, "templates/*.html"),
)

var moneyPrinter = message.NewPrinter(language.English)

func formatMoney(amount float64) string {
	return moneyPrinter.Sprintf("$%.0f", amount)
}

func periodLabel(start, end time.Time) string {
	return start.Format("2006-01-02") + " ~ " + end.Format("2006-01-02")
}

type salaryEmailData struct {
	Username   string
	Period     string
	Total      float64
	Records    []*models.SalaryRecord
	ExportDate string
}

// renderSalary builds the push text and email bodies for a salary report.
func renderSalary(username string, start, end, now time.Time, records []*models.SalaryRecord) (notify.Message, error) {
	sorted := make([]*models.SalaryRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RecordDate.After(sorted[j].RecordDate)
	})

	var total float64
	for _, r := range sorted {
		total += float64(r.Amount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💰 [薪資報表] %s\n", periodLabel(start, end))
	fmt.Fprintf(&b, "總金額: %s\n", formatMoney(total))
	fmt.Fprintf(&b, "筆數: %d 筆\n", len(sorted))
	b.WriteString("------------------\n")
	for _, r := range sorted {
		kind := "排班"
		if r.Kind == models.SalaryKindBonus {
			kind = "獎金"
		}
		fmt.Fprintf(&b, "%s %s $%d", r.RecordDate.Format("01-02"), kind, r.Amount)
		if r.Kind == models.SalaryKindShift {
			fmt.Fprintf(&b, " (%gh)", r.Hours)
		}
		b.WriteString("\n")
	}

	html, err := renderTemplate("salary_report.html", salaryEmailData{
		Username:   username,
		Period:     periodLabel(start, end),
		Total:      total,
		Records:    sorted,
		ExportDate: now.Format("2006/01/02"),
	})
	if err != nil {
		return notify.Message{}, err
	}

	return notify.Message{
		Subject:  fmt.Sprintf("每月薪資報表 (%s)", periodLabel(start, end)),
		Body:     strings.TrimRight(b.String(), "\n"),
		HTMLBody: html,
	}, nil
}

type categoryTotal struct {
	Category string
	Total    float64
}

type expenseEmailData struct {
	Username      string
	Period        string
	Total         float64
	Records       []*models.ExpenseRecord
	TopCategories []categoryTotal
}

// renderExpense builds the push text and email bodies for an expense report.
func renderExpense(username string, start, end time.Time, records []*models.ExpenseRecord) (notify.Message, error) {
	sorted := make([]*models.ExpenseRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SpentAt.After(sorted[j].SpentAt)
	})

	var total float64
	byCategory := make(map[string]float64)
	for _, r := range sorted {
		total += r.Amount
		byCategory[categoryName(r.Category)] += r.Amount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💸 [記帳報表] %s\n", periodLabel(start, end))
	fmt.Fprintf(&b, "總支出: %s\n", formatMoney(total))
	b.WriteString("------------------\n")
	for _, r := range sorted {
		fmt.Fprintf(&b, "%s %s $%.0f\n", r.SpentAt.Format("01-02 15:04"), categoryName(r.Category), r.Amount)
	}

	html, err := renderTemplate("expense_report.html", expenseEmailData{
		Username:      username,
		Period:        periodLabel(start, end),
		Total:         total,
		Records:       sorted,
		TopCategories: topCategories(byCategory, 5),
	})
	if err != nil {
		return notify.Message{}, err
	}

	return notify.Message{
		Subject:  fmt.Sprintf("每月記帳報表 (%s)", periodLabel(start, end)),
		Body:     strings.TrimRight(b.String(), "\n"),
		HTMLBody: html,
	}, nil
}

func renderTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func categoryName(c string) string {
	if c == "" {
		return "其他"
	}
	return c
}

func topCategories(byCategory map[string]float64, n int) []categoryTotal {
	out := make([]categoryTotal, 0, len(byCategory))
	for c, t := range byCategory {
		out = append(out, categoryTotal{Category: c, Total: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
