package report

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var sharePrinter = message.NewPrinter(language.TraditionalChinese)

// escapeCell keeps a value on one line and inside its table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(singleLine(s), "|", `\|`)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes keeps the first n runes of s.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// displayDate turns YYYYMMDD into YYYY/MM/DD. Other inputs pass through.
func displayDate(date string) string {
	if len(date) != 8 {
		return date
	}
	if _, err := strconv.Atoi(date); err != nil {
		return date
	}
	return date[:4] + "/" + date[4:6] + "/" + date[6:]
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatPercent prints a signed change such as +1.5% or -0.3%.
func formatPercent(v float64) string {
	if v > 0 {
		return "+" + formatNumber(v) + "%"
	}
	return formatNumber(v) + "%"
}

// formatShares prints a whole share count with thousands separators and an explicit + when positive.
func formatShares(v float64) string {
	n := int64(math.Trunc(v))
	s := sharePrinter.Sprintf("%d", abs(n))
	switch {
	case n > 0:
		return "+" + s
	case n < 0:
		return "-" + s
	}
	return s
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
