package events

import (
	"time"

	"pipecrm/internal/domain"
)

const (
	EventDealMoved   = "deal_moved"
	EventDealOutcome = "deal_outcome"
	EventDealDeleted = "deal_deleted"
)

// BoardEvent is the wire format pushed to kanban clients.
type BoardEvent struct {
	Event      string `json:"event"`
	PipelineID int64  `json:"pipeline_id"`
	DealID     int64  `json:"deal_id"`
	StageID    int64  `json:"stage_id,omitempty"`
	SaleStatus string `json:"sale_status,omitempty"`
	At         string `json:"at"`
}

// Notifier adapts the hub to the interface the deal module consumes.
// Delivery is best effort; a board client that missed an event refetches the
// summary on reconnect.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) NotifyDealMoved(pipelineID, dealID, stageID int64) {
	n.hub.BroadcastToPipeline(pipelineID, BoardEvent{
		Event:      EventDealMoved,
		PipelineID: pipelineID,
		DealID:     dealID,
		StageID:    stageID,
		At:         time.Now().UTC().Format(time.RFC3339),
	})
}

func (n *Notifier) NotifyDealOutcome(pipelineID, dealID int64, status domain.SaleStatus) {
	n.hub.BroadcastToPipeline(pipelineID, BoardEvent{
		Event:      EventDealOutcome,
		PipelineID: pipelineID,
		DealID:     dealID,
		SaleStatus: string(status),
		At:         time.Now().UTC().Format(time.RFC3339),
	})
}

func (n *Notifier) NotifyDealDeleted(pipelineID, dealID int64) {
	n.hub.BroadcastToPipeline(pipelineID, BoardEvent{
		Event:      EventDealDeleted,
		PipelineID: pipelineID,
		DealID:     dealID,
		At:         time.Now().UTC().Format(time.RFC3339),
	})
}
