package normalize

import "strings"

// RecordKind names a canonical record type.
type RecordKind string

const (
	KindInstitutional RecordKind = "institutional"
	KindNews          RecordKind = "news"
	KindQuote         RecordKind = "quote"
	KindPrediction    RecordKind = "prediction"
)

// Field is a logical field of a canonical record.
type Field string

const (
	FieldCode          Field = "code"
	FieldName          Field = "name"
	FieldNet           Field = "net"
	FieldTime          Field = "time"
	FieldTitle         Field = "title"
	FieldLink          Field = "link"
	FieldOpen          Field = "open"
	FieldClose         Field = "close"
	FieldChangePercent Field = "change_percent"
	FieldImpact        Field = "impact"
	FieldReason        Field = "reason"
)

// noPosition marks a field that positional rows never carry.
const noPosition = -1

// FieldSpec locates one logical field in either source shape.
type FieldSpec struct {
	Field    Field
	Position int      // index into positional rows, noPosition if absent
	Markers  []string // key substrings for keyed records, highest priority first
	Required bool
}

// Layout describes how a RecordKind is found in raw rows.
// Key is the field whose absence makes a keyed record set degenerate.
type Layout struct {
	Kind   RecordKind
	Key    Field
	Fields []FieldSpec
}

var registry = map[RecordKind]Layout{
	KindInstitutional: {
		Kind: KindInstitutional,
		Key:  FieldCode,
		Fields: []FieldSpec{
			{Field: FieldCode, Position: 0, Markers: []string{"證券代號", "代號", "code"}, Required: true},
			{Field: FieldName, Position: 1, Markers: []string{"證券名稱", "名稱", "name"}, Required: true},
			{Field: FieldNet, Position: 2, Markers: []string{"三大法人買賣超股數", "買賣超", "totalnet", "net"}},
		},
	},
	KindNews: {
		Kind: KindNews,
		Key:  FieldTitle,
		Fields: []FieldSpec{
			{Field: FieldTime, Position: 0, Markers: []string{"time", "date", "時間"}},
			{Field: FieldTitle, Position: 1, Markers: []string{"title", "標題"}, Required: true},
			{Field: FieldLink, Position: 2, Markers: []string{"link", "href", "url"}},
		},
	},
	KindQuote: {
		Kind: KindQuote,
		Key:  FieldCode,
		Fields: []FieldSpec{
			{Field: FieldCode, Position: 0, Markers: []string{"code", "證券代號", "代號"}, Required: true},
			{Field: FieldName, Position: 1, Markers: []string{"name", "證券名稱", "名稱"}},
			{Field: FieldOpen, Position: 2, Markers: []string{"open", "開盤"}, Required: true},
			{Field: FieldClose, Position: 3, Markers: []string{"close", "收盤"}, Required: true},
			{Field: FieldChangePercent, Position: 4, Markers: []string{"changepercent", "change_percent", "pct", "漲跌幅"}},
		},
	},
	KindPrediction: {
		Kind: KindPrediction,
		Key:  FieldCode,
		Fields: []FieldSpec{
			{Field: FieldCode, Position: 0, Markers: []string{"code", "代碼", "代號"}, Required: true},
			{Field: FieldName, Position: 1, Markers: []string{"name", "名稱"}},
			{Field: FieldImpact, Position: 2, Markers: []string{"impact", "影響"}, Required: true},
			{Field: FieldReason, Position: 3, Markers: []string{"reason", "理由"}},
		},
	},
}

// LayoutFor returns the registered layout for kind.
func LayoutFor(kind RecordKind) (Layout, bool) {
	l, ok := registry[kind]
	return l, ok
}

// resolveKeys binds each field to the first key containing one of its markers.
// Markers are tried in priority order and keys in document order; a key is bound at most once.
func (l Layout) resolveKeys(keys []string) map[string]Field {
	bound := make(map[string]Field, len(l.Fields))
	for _, spec := range l.Fields {
		if key, ok := matchMarker(keys, spec.Markers, bound); ok {
			bound[key] = spec.Field
		}
	}
	return bound
}

func matchMarker(keys, markers []string, bound map[string]Field) (string, bool) {
	for _, marker := range markers {
		m := strings.ToLower(marker)
		for _, key := range keys {
			if _, taken := bound[key]; taken {
				continue
			}
			if strings.Contains(strings.ToLower(key), m) {
				return key, true
			}
		}
	}
	return "", false
}

// maxRequiredPosition is the shortest positional row length minus one.
func (l Layout) maxRequiredPosition() int {
	highest := noPosition
	for _, spec := range l.Fields {
		if spec.Required && spec.Position > highest {
			highest = spec.Position
		}
	}
	return highest
}

func (l Layout) spec(f Field) (FieldSpec, bool) {
	for _, spec := range l.Fields {
		if spec.Field == f {
			return spec, true
		}
	}
	return FieldSpec{}, false
}
