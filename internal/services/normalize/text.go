package normalize

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// CleanText reduces markup to text and strips control and zero-width characters.
func CleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\u200b', r == '\u200c', r == '\u200d', r == '\u2060', r == '\ufeff':
			return -1
		case unicode.IsControl(r):
			return ' '
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// ParseNumber parses a display number such as "+1,234", "-0.5%" or "12 345".
func ParseNumber(s string) (float64, bool) {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == ',', r == '+', r == '%', unicode.IsSpace(r):
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NumberOf coerces a JSON value to a float. Strings go through ParseNumber.
func NumberOf(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		return ParseNumber(v.Str)
	default:
		return 0, false
	}
}
