package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sjperalta/antecipa-api/internal/models"
)

// Anticipation events
const (
	EventApprove  = "approve"
	EventReject   = "reject"
	EventComplete = "complete"
)

// AnticipationFSM wraps an anticipation request with its state machine
type AnticipationFSM struct {
	request *models.AnticipationRequest
	fsm     *fsm.FSM
}

// NewAnticipationFSM creates a new anticipation state machine.
// Unknown persisted statuses are rejected instead of being silently accepted.
func NewAnticipationFSM(request *models.AnticipationRequest) (*AnticipationFSM, error) {
	status, err := models.ParseAnticipationStatus(string(request.Status))
	if err != nil {
		return nil, err
	}

	afsm := &AnticipationFSM{
		request: request,
	}

	afsm.fsm = fsm.NewFSM(
		string(status),
		fsm.Events{
			// Solicitada → Aprovada
			{Name: EventApprove, Src: []string{string(models.AnticipationStatusRequested)}, Dst: string(models.AnticipationStatusApproved)},

			// Solicitada → Reprovada
			{Name: EventReject, Src: []string{string(models.AnticipationStatusRequested)}, Dst: string(models.AnticipationStatusRejected)},

			// Aprovada → Concluída
			{Name: EventComplete, Src: []string{string(models.AnticipationStatusApproved)}, Dst: string(models.AnticipationStatusCompleted)},
		},
		fsm.Callbacks{},
	)

	return afsm, nil
}

// Approve transitions the request to Aprovada
func (a *AnticipationFSM) Approve(ctx context.Context) error {
	if !a.request.MayApprove() {
		return fmt.Errorf("antecipação não pode ser aprovada no status atual: %s", a.request.Status)
	}
	return a.fire(ctx, EventApprove)
}

// Reject transitions the request to Reprovada
func (a *AnticipationFSM) Reject(ctx context.Context) error {
	if !a.request.MayReject() {
		return fmt.Errorf("antecipação não pode ser reprovada no status atual: %s", a.request.Status)
	}
	return a.fire(ctx, EventReject)
}

// Complete transitions the request to Concluída
func (a *AnticipationFSM) Complete(ctx context.Context) error {
	if !a.request.MayComplete() {
		return fmt.Errorf("antecipação não pode ser concluída no status atual: %s", a.request.Status)
	}
	return a.fire(ctx, EventComplete)
}

func (a *AnticipationFSM) fire(ctx context.Context, event string) error {
	if err := a.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to %s anticipation: %w", event, err)
	}
	a.request.Status = models.AnticipationStatus(a.fsm.Current())
	return nil
}

// Current returns the current state
func (a *AnticipationFSM) Current() models.AnticipationStatus {
	return models.AnticipationStatus(a.fsm.Current())
}

// Can checks if a transition is possible
func (a *AnticipationFSM) Can(event string) bool {
	return a.fsm.Can(event)
}
