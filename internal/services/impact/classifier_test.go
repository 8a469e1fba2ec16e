package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/twbrief/internal/models"
	"github.com/ternarybob/twbrief/internal/services/stockcode"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())

	tests := []struct {
		text string
		want models.Impact
	}{
		{"營收創新高", models.ImpactBullish},
		{"爆發虧損", models.ImpactBearish},
		{"今日持平", models.ImpactNeutral},
		{"股利優於預期但裁員", models.ImpactBullish},
		{"營收衰退且減產", models.ImpactBearish},
		{"上修後又下修", models.ImpactNeutral},
		{"", models.ImpactNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestScore_OverlapsDoubleCount(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())
	// 營收創新高 and 新高 both match.
	assert.Equal(t, 2, c.Score("營收創新高"))
	// 營收衰退 and 衰退 both match.
	assert.Equal(t, -2, c.Score("營收衰退"))
	// Repeats count once.
	assert.Equal(t, 1, c.Score("漲停漲停漲停"))
}

func TestCustomVocabulary(t *testing.T) {
	c := NewClassifier(NewVocabulary([]string{"beat", " "}, []string{"miss"}))
	assert.Equal(t, models.ImpactBullish, c.Classify("earnings beat"))
	assert.Equal(t, models.ImpactBearish, c.Classify("revenue miss"))
	assert.Equal(t, models.ImpactNeutral, c.Classify("營收創新高"))
}

func TestVocabularyIsImmutable(t *testing.T) {
	v := DefaultVocabulary()
	words := v.Bullish()
	words[0] = "changed"
	assert.Equal(t, "營收創新高", v.Bullish()[0])
}

func TestAnnotate(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())
	item := models.NewsItem{Title: "2330台積電法說會 獲利大增", Source: "cnyes"}

	got := c.Annotate(item, stockcode.Extract)
	assert.Equal(t, item, got.Item)
	assert.Equal(t, models.ImpactBullish, got.Impact)
	require.NotNil(t, got.Stock)
	assert.Equal(t, "2330", got.Stock.Code)

	got = c.Annotate(models.NewsItem{Title: "大盤漲停"}, stockcode.Extract)
	assert.Nil(t, got.Stock)
}
