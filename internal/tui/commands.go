package tui

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/cart"
	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/service"
	"github.com/campushub/cafe/internal/session"
)

// Results of background work. Update applies them to the state.

type loggedInMsg struct {
	svc      *session.Services
	username string
	role     enum.Role
	err      error
}

type registeredMsg struct {
	message string
}

type menuMsg struct {
	items []backend.MenuItem
	err   error
}

type submittedMsg struct {
	res   service.SubmitResult
	items []backend.MenuItem
	err   error
}

type accessMsg struct {
	message string
}

type dashboardMsg struct {
	dashboard service.Dashboard
}

type stockMsg struct {
	edit      service.StockEdit
	message   string
	dashboard service.Dashboard
}

type decidedMsg struct {
	message   string
	dashboard service.Dashboard
}

type loggedOutMsg struct{}

func loginCmd(newClient ClientFactory, timeout time.Duration, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		client := newClient()
		res, err := client.Login(ctx, username, password)
		if err != nil {
			return loggedInMsg{err: err}
		}
		role, err := enum.ParseRole(res.Role)
		if err != nil {
			if lerr := client.Logout(ctx); lerr != nil {
				log.Printf("ERROR: backend logout: %v", lerr)
			}
			return loggedInMsg{err: err}
		}
		return loggedInMsg{svc: session.NewServices(client, nil), username: res.Username, role: role}
	}
}

func registerCmd(newClient ClientFactory, timeout time.Duration, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msg, err := newClient().Register(ctx, username, password)
		if err != nil {
			return registeredMsg{message: backend.MessageOr(err, "registration failed")}
		}
		return registeredMsg{message: msg}
	}
}

func menuCmd(svc *session.Services, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		_, err := svc.Catalog.Refresh(ctx)
		return menuMsg{items: svc.Catalog.Available(), err: err}
	}
}

func submitCmd(svc *session.Services, timeout time.Duration, c cart.Cart) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := svc.Orders.Submit(ctx, c)
		return submittedMsg{res: res, items: svc.Catalog.Available(), err: err}
	}
}

func accessCmd(svc *session.Services, timeout time.Duration, note string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msg, _ := service.RequestAccess(ctx, svc.Client, note)
		return accessMsg{message: msg}
	}
}

func dashboardCmd(svc *session.Services, timeout time.Duration, sections ...service.Section) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return dashboardMsg{dashboard: svc.Dashboard.Refresh(ctx, sections...)}
	}
}

func stockCmd(svc *session.Services, timeout time.Duration, edit service.StockEdit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		edit, msg, _ := svc.Stock.Save(ctx, edit)
		return stockMsg{edit: edit, message: msg, dashboard: svc.Dashboard.Snapshot()}
	}
}

func decideCmd(svc *session.Services, timeout time.Duration, requestID int, approve bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		decide := svc.Access.Reject
		if approve {
			decide = svc.Access.Approve
		}
		msg, _ := decide(ctx, requestID)
		return decidedMsg{message: msg, dashboard: svc.Dashboard.Snapshot()}
	}
}

func logoutCmd(svc *session.Services, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		svc.Client.Logout(ctx)
		return loggedOutMsg{}
	}
}
