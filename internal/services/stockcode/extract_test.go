package stockcode

import (
	"testing"

	"github.com/ternarybob/twbrief/internal/models"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   models.StockRef
		wantOK bool
	}{
		{"code then name", "2330台積電法說會", models.StockRef{Code: "2330", Name: "台積電"}, true},
		{"space before name", "2317 鴻海 營收創新高", models.StockRef{Code: "2317", Name: "鴻海"}, true},
		{"fullwidth colon stops name", "2454聯發科：法說會", models.StockRef{Code: "2454", Name: "聯發科"}, true},
		{"comma stops name", "3008大立，上修", models.StockRef{Code: "3008", Name: "大立"}, true},
		{"code at end", "法說會焦點 2603", models.StockRef{Code: "2603"}, true},
		{"year-like run skipped", "20260211 2330台積", models.StockRef{Code: "2330", Name: "台積"}, true},
		{"short run skipped", "Q4 營收 123 億，6505台塑化", models.StockRef{Code: "6505", Name: "台塑化"}, true},
		{"no code", "無代碼新聞", models.StockRef{}, false},
		{"empty", "", models.StockRef{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}
