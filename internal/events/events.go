// Package events publishes plan and ledger domain events.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoutingKeyReceivableLinked   = "receivable.linked"
	RoutingKeyReceivableUnlinked = "receivable.unlinked"
	RoutingKeyPlanRecalculated   = "plan.recalculated"
	RoutingKeyPlanDeleted        = "plan.deleted"

	publisherAppID = "antecipa-api"
)

// Publisher emits domain events after the owning transaction commits.
// Failures are logged by callers and never roll back the mutation.
type Publisher interface {
	PublishReceivableLinked(ctx context.Context, event ReceivableLinkedEvent) error
	PublishReceivableUnlinked(ctx context.Context, event ReceivableUnlinkedEvent) error
	PublishPlanRecalculated(ctx context.Context, event PlanRecalculatedEvent) error
	PublishPlanDeleted(ctx context.Context, event PlanDeletedEvent) error
	Close() error
}

type ReceivableLinkedEvent struct {
	PlanID        uint      `json:"planId"`
	InstallmentID uint      `json:"installmentId"`
	ReceivableIDs []uint    `json:"receivableIds"`
	Timestamp     time.Time `json:"timestamp"`
}

type ReceivableUnlinkedEvent struct {
	PlanID        uint      `json:"planId"`
	InstallmentID uint      `json:"installmentId"`
	LinkID        uint      `json:"linkId"`
	ReceivableID  uint      `json:"receivableId"`
	Timestamp     time.Time `json:"timestamp"`
}

type PlanRecalculatedEvent struct {
	PlanID       uint            `json:"planId"`
	Installments int             `json:"installments"`
	Skipped      []int           `json:"skipped,omitempty"`
	FinalBalance decimal.Decimal `json:"finalBalance"`
	FinalReserve decimal.Decimal `json:"finalReserve"`
	TotalRefund  decimal.Decimal `json:"totalRefund"`
	Timestamp    time.Time       `json:"timestamp"`
}

type PlanDeletedEvent struct {
	PlanID                uint      `json:"planId"`
	AnticipationRequestID uint      `json:"anticipationRequestId"`
	Timestamp             time.Time `json:"timestamp"`
}
