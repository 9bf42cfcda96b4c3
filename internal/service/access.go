package service

import (
	"context"
	"log"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/enum"
)

// Action is a control the admin view may render for an access request.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// IsTerminal reports whether no transition may leave status.
func IsTerminal(status string) bool {
	return status == enum.RequestStatusApproved || status == enum.RequestStatusRejected
}

// CanTransition reports whether an access request may move from one status
// to another. Only pending requests move, and only to a terminal status.
func CanTransition(from, to string) bool {
	return from == enum.RequestStatusPending && IsTerminal(to)
}

// Actions lists the controls to render for req. Requests that are not
// pending get none and show their status as plain text.
func Actions(req backend.AdminRequest) []Action {
	if req.Status != enum.RequestStatusPending {
		return nil
	}
	return []Action{ActionApprove, ActionReject}
}

// RequestDecider posts approve/reject decisions. Satisfied by *backend.Client.
type RequestDecider interface {
	ApproveRequest(ctx context.Context, requestID int) (string, error)
	RejectRequest(ctx context.Context, requestID int) (string, error)
}

// RequestBoard is where the workflow reads request state and triggers
// refreshes. Satisfied by *DashboardAggregator.
type RequestBoard interface {
	Request(id int) (backend.AdminRequest, bool)
	Refresh(ctx context.Context, sections ...Section) Dashboard
}

// AccessWorkflow moves access requests from pending to approved or rejected.
type AccessWorkflow struct {
	decider RequestDecider
	board   RequestBoard
}

// NewAccessWorkflow creates a new AccessWorkflow.
func NewAccessWorkflow(decider RequestDecider, board RequestBoard) *AccessWorkflow {
	return &AccessWorkflow{decider: decider, board: board}
}

// Approve approves a pending request. Approval can elevate a user, so the
// request list, the user list and the summary totals are all refreshed once
// the decision is stored.
func (w *AccessWorkflow) Approve(ctx context.Context, requestID int) (string, error) {
	if err := w.guard(requestID, enum.RequestStatusApproved); err != nil {
		return err.Error(), err
	}
	if _, err := w.decider.ApproveRequest(ctx, requestID); err != nil {
		log.Printf("ERROR: approve request %d: %v", requestID, err)
		fail := actionFailed(err, msgApproveFailed)
		return fail.Message, fail
	}
	w.board.Refresh(ctx, SectionRequests, SectionUsers, SectionSummary)
	return msgApproved, nil
}

// Reject rejects a pending request and refreshes the request list.
func (w *AccessWorkflow) Reject(ctx context.Context, requestID int) (string, error) {
	if err := w.guard(requestID, enum.RequestStatusRejected); err != nil {
		return err.Error(), err
	}
	if _, err := w.decider.RejectRequest(ctx, requestID); err != nil {
		log.Printf("ERROR: reject request %d: %v", requestID, err)
		fail := actionFailed(err, msgRejectFailed)
		return fail.Message, fail
	}
	w.board.Refresh(ctx, SectionRequests)
	return msgRejected, nil
}

func (w *AccessWorkflow) guard(requestID int, to string) error {
	req, ok := w.board.Request(requestID)
	if !ok || !CanTransition(req.Status, to) {
		return ErrNotPending
	}
	return nil
}

// AccessSubmitter sends a user's own request for admin access.
// Satisfied by *backend.Client.
type AccessSubmitter interface {
	SubmitAdminRequest(ctx context.Context, note string) (string, error)
}

// RequestAccess asks the backend to consider the logged-in user for admin
// access and returns the message to show.
func RequestAccess(ctx context.Context, sub AccessSubmitter, note string) (string, error) {
	msg, err := sub.SubmitAdminRequest(ctx, note)
	if err != nil {
		log.Printf("ERROR: submit admin request: %v", err)
		fail := actionFailed(err, msgRequestFailed)
		return fail.Message, fail
	}
	if msg == "" {
		msg = msgRequestSent
	}
	return msg, nil
}
