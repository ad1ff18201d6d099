package views

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/doable/dashboard/internal/core/domain"
)

const (
	dateLayout    = "2006-01-02"
	displayLayout = "Jan 2, 2006"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatBudget renders an amount with thousands grouping: 12345 → "$12,345".
func FormatBudget(amount float64) string {
	return "$" + printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
}

// FormatDate renders t for display, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(displayLayout)
}

// FormatDatePtr is FormatDate for optional dates, with fallback when nil.
func FormatDatePtr(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return FormatDate(*t)
}

// InputDate renders t in the value format of <input type="date">.
func InputDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// StatusLabel turns a task status into display text: "processing" → "Processing".
func StatusLabel(s domain.TaskStatus) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
