// Package stockcode finds Taiwan stock codes in free text.
package stockcode

import (
	"unicode"

	"github.com/ternarybob/twbrief/internal/models"
)

const (
	codeLength = 4
	maxNameLen = 3
)

// Extract returns the first run of exactly four ASCII digits and the name
// guessed from the runes that follow it. Longer or shorter digit runs are skipped.
func Extract(text string) (models.StockRef, bool) {
	runes := []rune(text)
	for i := 0; i < len(runes); {
		if !isDigit(runes[i]) {
			i++
			continue
		}
		j := i
		for j < len(runes) && isDigit(runes[j]) {
			j++
		}
		if j-i == codeLength {
			return models.StockRef{
				Code: string(runes[i:j]),
				Name: nameAfter(runes[j:]),
			}, true
		}
		i = j
	}
	return models.StockRef{}, false
}

// nameAfter takes up to three name runes after optional whitespace.
func nameAfter(runes []rune) string {
	i := 0
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	start := i
	for i < len(runes) && i-start < maxNameLen && isNameRune(runes[i]) {
		i++
	}
	return string(runes[start:i])
}

func isNameRune(r rune) bool {
	switch {
	case unicode.IsSpace(r), unicode.IsPunct(r), unicode.IsSymbol(r):
		return false
	case r == ':', r == '：', r == ',', r == '，':
		return false
	}
	return true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
