package api

import (
	"github.com/starford/edgelog/internal/archive"
	"github.com/starford/edgelog/internal/models"
)

// CreateRecordRequest is the request body for creating a record.
type CreateRecordRequest = archive.Draft

// RecordListResponse wraps a record listing.
type RecordListResponse struct {
	Records []models.Record `json:"records" validate:"required"`
	Total   int             `json:"total" example:"42" validate:"required"`
}

// MoveRequest reassigns a record. FolderID may be "uncategorized".
type MoveRequest struct {
	FolderID string `json:"folderId" example:"f_default_1"`
}

// FolderRequest is the request body for creating a folder.
type FolderRequest struct {
	Name string `json:"name" example:"Strategy A" validate:"required"`
}

// FolderListResponse wraps the folder listing.
type FolderListResponse struct {
	Folders []models.Folder `json:"folders" validate:"required"`
}

// FolderDeleteResponse reports how many records became uncategorized.
type FolderDeleteResponse struct {
	Cleared int `json:"cleared" example:"3"`
}

// TaxonomyRequest switches the active taxonomy.
type TaxonomyRequest struct {
	Taxonomy string `json:"taxonomy" example:"date" validate:"required"`
}

// EnterRequest opens a bucket of the current view.
type EnterRequest struct {
	Key string `json:"key" example:"2024/03" validate:"required"`
}

// JumpRequest moves to a breadcrumb id; empty is the root.
type JumpRequest struct {
	ID string `json:"id" example:"2024"`
}

// TranscribeRequest carries recorded audio and the current body text.
type TranscribeRequest struct {
	Audio string `json:"audio" example:"data:audio/webm;base64,..." validate:"required"`
	Text  string `json:"text"`
}

// TranscribeResponse is the body text with the transcript appended.
type TranscribeResponse struct {
	Text string `json:"text"`
}

// TitleRequest reports the draft title as it is typed.
type TitleRequest struct {
	Title string `json:"title" example:"GBPUSD"`
}

// SymbolResponse is the symbol the chart currently follows.
type SymbolResponse struct {
	Symbol string `json:"symbol" example:"EURUSD"`
}
