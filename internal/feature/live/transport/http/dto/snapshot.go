// Package dto defines data transfer objects for the live ticker HTTP and websocket API.
package dto

import (
	"time"

	chartentity "stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/live/domain/entity"
	"stock_dashboard/internal/feature/live/usecase"
)

// SnapshotMessage is pushed to websocket clients after every tick and selection change.
type SnapshotMessage struct {
	Type      string                   `json:"type"` // "snapshot"
	SessionID string                   `json:"sessionId"`
	Time      time.Time                `json:"time"`
	Quotes    []entity.Quote           `json:"quotes"`
	Selected  entity.Quote             `json:"selected"`
	Range     string                   `json:"range"`
	Chart     []chartentity.PricePoint `json:"chart"`
}

// ErrorMessage reports a rejected client command without closing the connection.
type ErrorMessage struct {
	Type  string `json:"type"` // "error"
	Error string `json:"error"`
}

// ControlMessage is sent by the client to change the selection.
// Either field may be omitted.
type ControlMessage struct {
	Symbol string `json:"symbol,omitempty"`
	Range  string `json:"range,omitempty"`
}

// NewSnapshotMessage converts a session snapshot to its wire form.
func NewSnapshotMessage(s usecase.Snapshot) SnapshotMessage {
	chart := s.Chart
	if chart == nil {
		chart = []chartentity.PricePoint{}
	}
	return SnapshotMessage{
		Type:      "snapshot",
		SessionID: s.SessionID,
		Time:      s.Time,
		Quotes:    s.Quotes,
		Selected:  s.Selected,
		Range:     string(s.Range),
		Chart:     chart,
	}
}

// NewErrorMessage wraps err for the websocket client.
func NewErrorMessage(err error) ErrorMessage {
	return ErrorMessage{Type: "error", Error: err.Error()}
}
