// Package tui is the terminal console for the café: a login screen, the
// user's menu and cart, and the admin's tabbed dashboard.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/session"
)

// ClientFactory returns a backend client with a fresh cookie jar.
type ClientFactory func() *backend.Client

type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenMain
)

type pane int

const (
	paneMenu pane = iota
	paneCart
)

// Model is the bubbletea model. Backend calls run as commands and every
// result is applied in Update, so session state is only touched there.
type Model struct {
	newClient ClientFactory
	timeout   time.Duration

	screen   screen
	username string
	password string
	field    int
	status   string
	busy     bool

	svc        *session.Services
	st         session.State
	pane       pane
	cursor     int
	cartCursor int
	noteOpen   bool
	note       string
}

// New creates a console on the login screen. timeout bounds every backend
// action.
func New(newClient ClientFactory, timeout time.Duration) Model {
	return Model{newClient: newClient, timeout: timeout}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenMain {
			return m.mainKey(msg)
		}
		return m.loginKey(msg)

	case loggedInMsg:
		m.busy = false
		if msg.err != nil {
			m.status = backend.MessageOr(msg.err, "login failed")
			return m, nil
		}
		m.svc = msg.svc
		m.st = session.LoggedIn(msg.username, msg.role)
		m.screen = screenMain
		m.password = ""
		m.status = ""
		m.busy = true
		if m.st.IsAdmin() {
			return m, dashboardCmd(m.svc, m.timeout)
		}
		return m, menuCmd(m.svc, m.timeout)

	case registeredMsg:
		m.busy = false
		m.status = msg.message
		return m, nil

	case menuMsg:
		m.busy = false
		if msg.err != nil {
			m.st = session.MenuFailed(m.st, msg.err)
		} else {
			m.st = session.MenuLoaded(m.st, msg.items)
		}
		m.clampCursors()
		return m, nil

	case submittedMsg:
		m.busy = false
		m.st = session.Submitted(m.st, msg.res)
		if msg.err == nil {
			m.st = session.MenuLoaded(m.st, msg.items)
		}
		m.clampCursors()
		return m, nil

	case accessMsg:
		m.busy = false
		m.st = session.AccessRequested(m.st, msg.message)
		return m, nil

	case dashboardMsg:
		m.busy = false
		m.st = session.DashboardLoaded(m.st, msg.dashboard)
		m.clampCursors()
		return m, nil

	case stockMsg:
		m.busy = false
		m.st = session.DashboardLoaded(session.StockSaved(m.st, msg.edit, msg.message), msg.dashboard)
		return m, nil

	case decidedMsg:
		m.busy = false
		m.st = session.DashboardLoaded(session.Decided(m.st, msg.message), msg.dashboard)
		m.clampCursors()
		return m, nil

	case loggedOutMsg:
		return New(m.newClient, m.timeout), nil
	}
	return m, nil
}

// rows is the number of selectable rows under the main cursor.
func (m Model) rows() int {
	if !m.st.IsAdmin() {
		return len(m.st.Menu)
	}
	switch m.st.Tab {
	case enum.TabOrders:
		return len(m.st.Dashboard.Orders)
	case enum.TabUsers:
		return len(m.st.Dashboard.Users)
	case enum.TabRequests:
		return len(m.st.Dashboard.Requests)
	default:
		return len(m.st.Dashboard.Menu)
	}
}

func (m *Model) clampCursors() {
	m.cursor = clamp(m.cursor, m.rows())
	m.cartCursor = clamp(m.cartCursor, m.st.Cart.Len())
}

func clamp(c, n int) int {
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}
