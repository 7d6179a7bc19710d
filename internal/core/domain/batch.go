package domain

import "time"

// FileType describes what kind of data a parsed file carried.
type FileType string

const (
	FileMaster      FileType = "master"
	FileTransaction FileType = "transaction"
	FileMixed       FileType = "mixed"
	FileUnknown     FileType = "unknown"
)

// ParsedBatch is the normalized output of one input document. Master maps
// are keyed by NormalizeName of the entity name.
type ParsedBatch struct {
	Company     *Company             `json:"company,omitempty"`
	Ledgers     map[string]Ledger    `json:"ledgers"`
	StockItems  map[string]StockItem `json:"stockItems"`
	Units       map[string]Unit      `json:"units"`
	Vouchers    []Voucher            `json:"vouchers"`
	FileType    FileType             `json:"fileType"`
	SourceFiles []string             `json:"sourceFiles"`
	Warnings    []Warning            `json:"warnings"`
}

// NewParsedBatch returns an empty batch for the given source file.
func NewParsedBatch(source string) *ParsedBatch {
	return &ParsedBatch{
		Ledgers:     make(map[string]Ledger),
		StockItems:  make(map[string]StockItem),
		Units:       make(map[string]Unit),
		FileType:    FileUnknown,
		SourceFiles: []string{source},
	}
}

// ImportStatus is the outcome of a single file import.
type ImportStatus string

const (
	ImportSuccess ImportStatus = "success"
	ImportPartial ImportStatus = "partial"
	ImportError   ImportStatus = "error"
)

// ImportLog records the outcome of one file import attempt.
type ImportLog struct {
	ID                string       `json:"id"`
	FileName          string       `json:"fileName"`
	FileType          FileType     `json:"fileType"`
	Status            ImportStatus `json:"status"`
	VouchersProcessed int          `json:"vouchersProcessed"`
	VouchersMerged    int          `json:"vouchersMerged"`
	VouchersDuplicate int          `json:"vouchersDuplicate"`
	MastersProcessed  int          `json:"mastersProcessed"`
	FromCache         bool         `json:"fromCache"`
	ErrorMessage      string       `json:"errorMessage,omitempty"`
	Warnings          []Warning    `json:"warnings,omitempty"`
	StartedAt         time.Time    `json:"startedAt"`
	FinishedAt        time.Time    `json:"finishedAt"`
}
