package dto

import "github.com/skpatro/tallystock/internal/core/domain"

// ImportInboxResponse summarizes a bulk import of the inbox directory.
type ImportInboxResponse struct {
	FilesProcessed int                `json:"filesProcessed"`
	Succeeded      int                `json:"succeeded"`
	Partial        int                `json:"partial"`
	Failed         int                `json:"failed"`
	Logs           []domain.ImportLog `json:"logs"`
}

// ToImportInboxResponse tallies per-file outcomes into the bulk summary.
func ToImportInboxResponse(logs []domain.ImportLog) ImportInboxResponse {
	res := ImportInboxResponse{FilesProcessed: len(logs), Logs: logs}
	for _, l := range logs {
		switch l.Status {
		case domain.ImportSuccess:
			res.Succeeded++
		case domain.ImportPartial:
			res.Partial++
		default:
			res.Failed++
		}
	}
	return res
}

// ImportLogsQuery bounds the import history listing.
type ImportLogsQuery struct {
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=500"`
}
