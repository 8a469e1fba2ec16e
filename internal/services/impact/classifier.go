// Package impact scores headlines against bullish and bearish keyword lists.
package impact

import (
	"strings"

	"github.com/ternarybob/twbrief/internal/models"
)

// Vocabulary is an immutable pair of keyword lists.
type Vocabulary struct {
	bullish []string
	bearish []string
}

// NewVocabulary copies the given lists. Empty keywords are ignored.
func NewVocabulary(bullish, bearish []string) Vocabulary {
	return Vocabulary{bullish: nonEmpty(bullish), bearish: nonEmpty(bearish)}
}

// DefaultVocabulary returns the built-in Taiwan market keyword lists.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(
		[]string{"營收創新高", "獲利大增", "漲停", "大買", "收購", "股利", "殖利率", "強漲", "利多", "優於預期", "上修", "擴產", "新高", "完工", "入帳"},
		[]string{"營收衰退", "虧損", "跌停", "大賣", "罰鍰", "違約", "利空", "重挫", "下修", "不如預期", "裁員", "衰退", "減產"},
	)
}

// Bullish returns a copy of the bullish keywords.
func (v Vocabulary) Bullish() []string { return append([]string(nil), v.bullish...) }

// Bearish returns a copy of the bearish keywords.
func (v Vocabulary) Bearish() []string { return append([]string(nil), v.bearish...) }

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Classifier applies a Vocabulary to text.
type Classifier struct {
	vocab Vocabulary
}

// NewClassifier returns a classifier over vocab.
func NewClassifier(vocab Vocabulary) *Classifier {
	return &Classifier{vocab: vocab}
}

// Score counts bullish keywords present minus bearish keywords present.
// Each keyword counts once; overlapping keywords (新高 in 營收創新高) all count.
func (c *Classifier) Score(text string) int {
	score := 0
	for _, k := range c.vocab.bullish {
		if strings.Contains(text, k) {
			score++
		}
	}
	for _, k := range c.vocab.bearish {
		if strings.Contains(text, k) {
			score--
		}
	}
	return score
}

// Classify maps the score sign to an Impact.
func (c *Classifier) Classify(text string) models.Impact {
	switch score := c.Score(text); {
	case score > 0:
		return models.ImpactBullish
	case score < 0:
		return models.ImpactBearish
	default:
		return models.ImpactNeutral
	}
}

// Annotate classifies a news item and attaches the first stock code found in its title.
func (c *Classifier) Annotate(item models.NewsItem, extract func(string) (models.StockRef, bool)) models.ClassifiedNews {
	cn := models.ClassifiedNews{Item: item, Impact: c.Classify(item.Title)}
	if ref, ok := extract(item.Title); ok {
		cn.Stock = &ref
	}
	return cn
}
