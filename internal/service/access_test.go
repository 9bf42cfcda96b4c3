package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/service"
)

func TestActions(t *testing.T) {
	cases := []struct {
		status string
		want   int
	}{
		{enum.RequestStatusPending, 2},
		{enum.RequestStatusApproved, 0},
		{enum.RequestStatusRejected, 0},
		{"weird", 0},
	}
	for _, tc := range cases {
		got := service.Actions(backend.AdminRequest{ID: 1, Status: tc.status})
		if len(got) != tc.want {
			t.Errorf("Actions(%q): got %v, want %d actions", tc.status, got, tc.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	statuses := []string{enum.RequestStatusPending, enum.RequestStatusApproved, enum.RequestStatusRejected}
	for _, from := range statuses {
		for _, to := range statuses {
			want := from == enum.RequestStatusPending && to != enum.RequestStatusPending
			if got := service.CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s): got %v, want %v", from, to, got, want)
			}
		}
	}
}

func newWorkflow(t *testing.T) (*service.AccessWorkflow, *service.DashboardAggregator, func(string) int) {
	t.Helper()
	srv, client, catalog := newFixture(t, "admin")
	srv.AddUser("alex", "pw2", "user")
	srv.Requests = []backend.AdminRequest{{ID: 7, Username: "alex", Note: "I run the morning shift", Status: "pending"}}

	agg := service.NewDashboardAggregator(catalog, client)
	agg.Refresh(context.Background())

	wf := service.NewAccessWorkflow(client, agg)
	return wf, agg, srv.Hits
}

func TestApprove_RefreshesRequestsUsersAndSummary(t *testing.T) {
	wf, agg, hits := newWorkflow(t)

	msg, err := wf.Approve(context.Background(), 7)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if msg != "request approved" {
		t.Errorf("message: got %q", msg)
	}

	req, _ := agg.Request(7)
	if req.Status != enum.RequestStatusApproved {
		t.Errorf("status after refetch: got %q, want approved", req.Status)
	}
	for route, want := range map[string]int{
		"GET /admin-requests":       2,
		"GET /admin/users":          2,
		"GET /orders/admin/summary": 2,
		"GET /orders/admin":         1,
	} {
		if got := hits(route); got != want {
			t.Errorf("%s: got %d fetches, want %d", route, got, want)
		}
	}

	d := agg.Snapshot()
	for _, u := range d.Users {
		if u.Username == "alex" && u.Role != "admin" {
			t.Errorf("alex role after approval: got %q", u.Role)
		}
	}
	if len(service.Actions(req)) != 0 {
		t.Error("approved request must not expose actions")
	}

	// A second decision on the same request is refused before any call.
	if _, err := wf.Reject(context.Background(), 7); !errors.Is(err, service.ErrNotPending) {
		t.Errorf("reject after approve: got %v, want ErrNotPending", err)
	}
	if got := hits("POST /admin-requests/reject"); got != 0 {
		t.Errorf("reject calls: got %d, want 0", got)
	}
}

func TestReject_RefreshesOnlyRequests(t *testing.T) {
	wf, agg, hits := newWorkflow(t)

	msg, err := wf.Reject(context.Background(), 7)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if msg != "request rejected" {
		t.Errorf("message: got %q", msg)
	}
	if req, _ := agg.Request(7); req.Status != enum.RequestStatusRejected {
		t.Errorf("status: got %q", req.Status)
	}
	if got := hits("GET /admin-requests"); got != 2 {
		t.Errorf("requests fetches: got %d, want 2", got)
	}
	if got := hits("GET /admin/users"); got != 1 {
		t.Errorf("users fetches: got %d, want 1", got)
	}
	if _, err := wf.Approve(context.Background(), 7); !errors.Is(err, service.ErrNotPending) {
		t.Errorf("approve after reject: got %v, want ErrNotPending", err)
	}
}

func TestApprove_UnknownRequest(t *testing.T) {
	wf, _, hits := newWorkflow(t)

	msg, err := wf.Approve(context.Background(), 999)
	if !errors.Is(err, service.ErrNotPending) {
		t.Fatalf("error: got %v, want ErrNotPending", err)
	}
	if msg != "request is no longer pending" {
		t.Errorf("message: got %q", msg)
	}
	if hits("POST /admin-requests/approve") != 0 {
		t.Error("no decision should be posted")
	}
}

type mockDecider struct {
	approveFn func(ctx context.Context, id int) (string, error)
	rejectFn  func(ctx context.Context, id int) (string, error)
}

func (m *mockDecider) ApproveRequest(ctx context.Context, id int) (string, error) {
	return m.approveFn(ctx, id)
}
func (m *mockDecider) RejectRequest(ctx context.Context, id int) (string, error) {
	return m.rejectFn(ctx, id)
}

type mockBoard struct {
	requests  map[int]backend.AdminRequest
	refreshed [][]service.Section
}

func (m *mockBoard) Request(id int) (backend.AdminRequest, bool) {
	r, ok := m.requests[id]
	return r, ok
}
func (m *mockBoard) Refresh(_ context.Context, sections ...service.Section) service.Dashboard {
	m.refreshed = append(m.refreshed, sections)
	return service.Dashboard{}
}

func TestApprove_FailureLeavesStateAndSkipsRefresh(t *testing.T) {
	board := &mockBoard{requests: map[int]backend.AdminRequest{7: {ID: 7, Username: "alex", Status: "pending"}}}
	decider := &mockDecider{
		approveFn: func(context.Context, int) (string, error) {
			return "", &backend.APIError{Op: "approve request", Status: http.StatusInternalServerError}
		},
		rejectFn: func(context.Context, int) (string, error) {
			return "", &backend.APIError{Op: "reject request", Status: http.StatusForbidden, Message: "Forbidden"}
		},
	}
	wf := service.NewAccessWorkflow(decider, board)

	msg, err := wf.Approve(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error")
	}
	if msg != "error approving request" {
		t.Errorf("approve message: got %q", msg)
	}

	msg, _ = wf.Reject(context.Background(), 7)
	if msg != "Forbidden" {
		t.Errorf("reject message: got %q", msg)
	}

	if len(board.refreshed) != 0 {
		t.Errorf("no refresh expected after failures, got %v", board.refreshed)
	}
	if board.requests[7].Status != "pending" {
		t.Error("request state changed on failure")
	}
}

func TestReject_FallbackMessageWithoutBackendMessage(t *testing.T) {
	board := &mockBoard{requests: map[int]backend.AdminRequest{7: {ID: 7, Username: "alex", Status: "pending"}}}
	decider := &mockDecider{
		rejectFn: func(context.Context, int) (string, error) {
			return "", &backend.APIError{Op: "reject request", Status: http.StatusInternalServerError}
		},
	}
	wf := service.NewAccessWorkflow(decider, board)

	msg, err := wf.Reject(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error")
	}
	if msg != "error rejecting request" {
		t.Errorf("message: got %q, want %q", msg, "error rejecting request")
	}
	if len(board.refreshed) != 0 {
		t.Errorf("no refresh expected after failure, got %v", board.refreshed)
	}
}

type mockSubmitter struct {
	submitFn func(ctx context.Context, note string) (string, error)
}

func (m *mockSubmitter) SubmitAdminRequest(ctx context.Context, note string) (string, error) {
	return m.submitFn(ctx, note)
}

func TestRequestAccess(t *testing.T) {
	ok := &mockSubmitter{submitFn: func(context.Context, string) (string, error) { return "", nil }}
	if msg, _ := service.RequestAccess(context.Background(), ok, "hi"); msg != "request sent" {
		t.Errorf("default success message: got %q", msg)
	}

	pending := &mockSubmitter{submitFn: func(context.Context, string) (string, error) {
		return "", &backend.APIError{Status: http.StatusBadRequest, Message: "Request already pending"}
	}}
	msg, err := service.RequestAccess(context.Background(), pending, "again")
	if err == nil || msg != "Request already pending" {
		t.Errorf("got %q, %v", msg, err)
	}

	broken := &mockSubmitter{submitFn: func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	}}
	if msg, _ := service.RequestAccess(context.Background(), broken, ""); msg != "error sending request" {
		t.Errorf("fallback message: got %q", msg)
	}
}
