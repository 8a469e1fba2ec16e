package predictions

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ternarybob/twbrief/internal/models"
	"github.com/ternarybob/twbrief/internal/services/normalize"
	"github.com/ternarybob/twbrief/internal/services/report"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// FromMarkdown reads predictions back out of a rendered pre-market report.
// Only the first table whose header matches the impact table is used.
// Cells are taken by position so an empty name does not shift the row.
// Rows whose code has no digits, such as the no-signal placeholder, are skipped.
func FromMarkdown(source []byte) ([]models.Prediction, bool) {
	doc := markdown.Parser().Parse(text.NewReader(source))

	var table *extast.Table
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		t, ok := n.(*extast.Table)
		if !ok {
			return ast.WalkContinue, nil
		}
		if header := headerCells(t, source); matchesHeader(header) {
			table = t
			return ast.WalkStop, nil
		}
		return ast.WalkSkipChildren, nil
	})
	if table == nil {
		return nil, false
	}

	var preds []models.Prediction
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		row, ok := child.(*extast.TableRow)
		if !ok {
			continue
		}
		cells := cellTexts(row, source)
		if len(cells) < len(report.ImpactTableHeader) || !hasDigit(cells[0]) {
			continue
		}
		preds = append(preds, models.Prediction{
			Code:   cells[0],
			Name:   cells[1],
			Impact: models.ParseImpact(cells[2]),
			Reason: cells[3],
		})
	}
	return preds, true
}

func headerCells(t *extast.Table, source []byte) []string {
	for child := t.FirstChild(); child != nil; child = child.NextSibling() {
		if h, ok := child.(*extast.TableHeader); ok {
			return cellTexts(h, source)
		}
	}
	return nil
}

func matchesHeader(cells []string) bool {
	if len(cells) != len(report.ImpactTableHeader) {
		return false
	}
	for i, want := range report.ImpactTableHeader {
		if cells[i] != want {
			return false
		}
	}
	return true
}

func cellTexts(row ast.Node, source []byte) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			s := strings.ReplaceAll(string(cell.Text(source)), `\|`, "|")
			cells = append(cells, normalize.CleanText(s))
		}
	}
	return cells
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
