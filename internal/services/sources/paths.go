package sources

import (
	"path/filepath"

	"github.com/ternarybob/twbrief/internal/services/report"
)

// Raw artifact names written by the producers.
const (
	FileInstitutionalTWSE = "institutional_twse.json"
	FileInstitutionalTPEX = "institutional_tpex.json"
	FileInstitutional     = "institutional.json"
	FileCnyes             = "cnyes.json"
	FileStatementDog      = "statementdog.json"
	FileMoneyDJ           = "moneydj.json"
	FileMOPS              = "mops.json"
	FilePrices            = "prices.json"
	FileInput             = "input.json"
)

// Paths resolves the dated directory layout under a data root.
type Paths struct {
	Root             string
	ResearchSubdir   string // pre-market sub-directory, e.g. tw-stock-research
	PostMarketSubdir string // post-market sub-directory, e.g. tw-stock-post-market
	RawSubdir        string // raw artifact sub-directory inside each dated directory
}

func (p Paths) PreMarketDir(date string) string {
	return filepath.Join(p.Root, p.ResearchSubdir, date)
}

func (p Paths) PreMarketRaw(date string) string {
	return filepath.Join(p.PreMarketDir(date), p.RawSubdir)
}

func (p Paths) PreMarketReport(date string) string {
	return filepath.Join(p.PreMarketDir(date), report.FileName(date))
}

func (p Paths) PostMarketDir(date string) string {
	return filepath.Join(p.Root, p.PostMarketSubdir, date)
}

func (p Paths) PostMarketRaw(date string) string {
	return filepath.Join(p.PostMarketDir(date), p.RawSubdir)
}

func (p Paths) PostMarketReport(date string) string {
	return filepath.Join(p.PostMarketDir(date), report.FileName(date))
}
