package events

import (
	"context"
	"log/slog"
)

// LogPublisher only logs events. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "LogPublisher")}
}

func (p *LogPublisher) PublishReceivableLinked(ctx context.Context, event ReceivableLinkedEvent) error {
	p.logger.DebugContext(ctx, "Event", "routingKey", RoutingKeyReceivableLinked, "plan_id", event.PlanID, "installment_id", event.InstallmentID, "receivables", len(event.ReceivableIDs))
	return nil
}

func (p *LogPublisher) PublishReceivableUnlinked(ctx context.Context, event ReceivableUnlinkedEvent) error {
	p.logger.DebugContext(ctx, "Event", "routingKey", RoutingKeyReceivableUnlinked, "plan_id", event.PlanID, "link_id", event.LinkID)
	return nil
}

func (p *LogPublisher) PublishPlanRecalculated(ctx context.Context, event PlanRecalculatedEvent) error {
	p.logger.DebugContext(ctx, "Event", "routingKey", RoutingKeyPlanRecalculated, "plan_id", event.PlanID, "installments", event.Installments)
	return nil
}

func (p *LogPublisher) PublishPlanDeleted(ctx context.Context, event PlanDeletedEvent) error {
	p.logger.DebugContext(ctx, "Event", "routingKey", RoutingKeyPlanDeleted, "plan_id", event.PlanID)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
