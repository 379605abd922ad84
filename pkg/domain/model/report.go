package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

// ImportReport summarizes one bulk import run
type ImportReport struct {
	RunID          string               `json:"run_id"`
	UserID         types.UserID         `json:"user_id"`
	RoomID         types.RoomID         `json:"room_id"`
	ConversationID types.ConversationID `json:"conversation_id"`
	// Processed counts messages delivered to the destination room;
	// Ignored counts messages skipped as unmappable, empty or duplicate
	Processed  int       `json:"processed"`
	Ignored    int       `json:"ignored"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewImportReport starts a report for a fresh run
func NewImportReport(userID types.UserID, roomID types.RoomID) *ImportReport {
	return &ImportReport{
		RunID:     uuid.NewString(),
		UserID:    userID,
		RoomID:    roomID,
		StartedAt: time.Now().UTC(),
	}
}
