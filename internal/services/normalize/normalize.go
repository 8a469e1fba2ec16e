// Package normalize converts heterogeneous producer JSON into canonical records.
// Nothing in this package returns an error: malformed or unexpected input degrades
// to an empty or degenerate result with warnings, so a bad source never aborts a run.
package normalize

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Shape is the structural form a producer delivered its rows in.
type Shape int

const (
	ShapeUnknown       Shape = iota
	ShapePositional          // array of arrays
	ShapeKeyed               // array of objects
	ShapeObjectOfLists       // object wrapping the list in .data or .items
	ShapeMapping             // object keyed by stock code
)

func (s Shape) String() string {
	switch s {
	case ShapePositional:
		return "positional"
	case ShapeKeyed:
		return "keyed"
	case ShapeObjectOfLists:
		return "object-of-lists"
	case ShapeMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Row is one shaped source row. Values are looked up by logical field.
type Row struct {
	Key    string // mapping key for ShapeMapping rows
	values map[Field]gjson.Result
}

// Has reports whether the row carries the field.
func (r Row) Has(f Field) bool {
	v, ok := r.values[f]
	return ok && v.Exists()
}

// Text returns the cleaned string value of f, or "".
func (r Row) Text(f Field) string {
	v, ok := r.values[f]
	if !ok || !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return CleanText(v.String())
}

// Number returns the numeric value of f. ok is false when the value is absent or unparsable.
func (r Row) Number(f Field) (float64, bool) {
	v, ok := r.values[f]
	if !ok {
		return 0, false
	}
	return NumberOf(v)
}

// Result is the shaped content of one raw document.
type Result struct {
	Kind       RecordKind
	Shape      Shape
	Malformed  bool // not valid JSON
	Listed     bool // a row list or code mapping was located
	Wrapped    bool // list was found under .data or .items
	Rows       []Row
	Degenerate bool // keyed records with no discoverable key field
	Warnings   []string
}

func (res *Result) warnf(format string, args ...interface{}) {
	res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
}

// Normalize shapes raw into rows for kind.
func Normalize(raw []byte, kind RecordKind) Result {
	res := Result{Kind: kind}

	layout, ok := LayoutFor(kind)
	if !ok {
		res.warnf("no layout registered for %q", kind)
		return res
	}
	if !gjson.ValidBytes(raw) {
		res.Malformed = true
		res.warnf("document is not valid JSON")
		return res
	}

	doc := gjson.ParseBytes(raw)
	list, wrapped, isMapping := listOf(doc)
	res.Wrapped = wrapped
	if isMapping {
		res.Listed = true
		res.Shape = ShapeMapping
		shapeMapping(&res, layout, doc)
		return res
	}
	res.Listed = list.IsArray()

	elements := list.Array()
	if len(elements) == 0 {
		if wrapped {
			res.Shape = ShapeObjectOfLists
		}
		return res
	}

	first := elements[0]
	switch {
	case first.IsArray():
		res.Shape = ShapePositional
		shapePositional(&res, layout, elements)
	case first.IsObject():
		res.Shape = ShapeKeyed
		shapeKeyed(&res, layout, elements)
	default:
		res.warnf("unsupported row type %s", first.Type)
	}
	return res
}

// listOf finds the row list: a top-level array, else .data, else .items.
// An object without either list whose values are all objects is a mapping.
func listOf(doc gjson.Result) (list gjson.Result, wrapped, mapping bool) {
	if doc.IsArray() {
		return doc, false, false
	}
	if !doc.IsObject() {
		return gjson.Result{}, false, false
	}
	for _, name := range []string{"data", "items"} {
		if v := doc.Get(name); v.IsArray() {
			return v, true, false
		}
	}
	allObjects := true
	count := 0
	doc.ForEach(func(_, v gjson.Result) bool {
		count++
		if !v.IsObject() {
			allObjects = false
			return false
		}
		return true
	})
	return gjson.Result{}, true, count > 0 && allObjects
}

func shapePositional(res *Result, layout Layout, elements []gjson.Result) {
	minLen := layout.maxRequiredPosition() + 1
	dropped := 0
	for _, el := range elements {
		if !el.IsArray() {
			dropped++
			continue
		}
		cells := el.Array()
		if len(cells) < minLen {
			dropped++
			continue
		}
		row := Row{values: make(map[Field]gjson.Result, len(layout.Fields))}
		for _, spec := range layout.Fields {
			if spec.Position != noPosition && spec.Position < len(cells) {
				row.values[spec.Field] = cells[spec.Position]
			}
		}
		res.Rows = append(res.Rows, row)
	}
	if dropped > 0 {
		res.warnf("dropped %d short or non-array rows", dropped)
	}
}

func shapeKeyed(res *Result, layout Layout, elements []gjson.Result) {
	bound := layout.resolveKeys(orderedKeys(elements[0]))
	if !boundField(bound, layout.Key) {
		res.Degenerate = true
		res.warnf("no key matched the %s markers; treating records as degenerate", layout.Key)
	}

	dropped := 0
	for _, el := range elements {
		if !el.IsObject() {
			dropped++
			continue
		}
		row := rowFromObject(el, bound, len(layout.Fields))
		if !res.Degenerate && !hasRequired(row, layout) {
			dropped++
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	if dropped > 0 {
		res.warnf("dropped %d records missing required fields", dropped)
	}
}

func shapeMapping(res *Result, layout Layout, doc gjson.Result) {
	var first gjson.Result
	doc.ForEach(func(_, v gjson.Result) bool {
		first = v
		return false
	})
	bound := layout.resolveKeys(orderedKeys(first))
	keyFromEntry := !boundField(bound, layout.Key)

	dropped := 0
	doc.ForEach(func(k, v gjson.Result) bool {
		row := rowFromObject(v, bound, len(layout.Fields))
		row.Key = k.String()
		if keyFromEntry {
			row.values[layout.Key] = k
		}
		if !hasRequired(row, layout) {
			dropped++
			return true
		}
		res.Rows = append(res.Rows, row)
		return true
	})
	if dropped > 0 {
		res.warnf("dropped %d entries missing required fields", dropped)
	}
}

func rowFromObject(obj gjson.Result, bound map[string]Field, size int) Row {
	row := Row{values: make(map[Field]gjson.Result, size)}
	obj.ForEach(func(k, v gjson.Result) bool {
		if f, ok := bound[k.String()]; ok {
			row.values[f] = v
		}
		return true
	})
	return row
}

func hasRequired(row Row, layout Layout) bool {
	for _, spec := range layout.Fields {
		if spec.Required && !row.Has(spec.Field) {
			return false
		}
	}
	return true
}

func boundField(bound map[string]Field, f Field) bool {
	for _, b := range bound {
		if b == f {
			return true
		}
	}
	return false
}

// orderedKeys returns an object's keys in document order.
func orderedKeys(obj gjson.Result) []string {
	var keys []string
	obj.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}
