package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/service"
	"github.com/campushub/cafe/internal/session"
)

func (m Model) loginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "up", "down":
		m.field = 1 - m.field
	case "ctrl+r":
		if m.screen == screenLogin {
			m.screen = screenRegister
		} else {
			m.screen = screenLogin
		}
		m.status = ""
	case "enter":
		if m.username == "" || m.password == "" {
			m.status = "username and password are required"
			return m, nil
		}
		m.busy = true
		if m.screen == screenRegister {
			m.status = "registering..."
			return m, registerCmd(m.newClient, m.timeout, m.username, m.password)
		}
		m.status = "logging in..."
		return m, loginCmd(m.newClient, m.timeout, m.username, m.password)
	default:
		if m.field == 0 {
			m.username = typeInto(m.username, msg)
		} else {
			m.password = typeInto(m.password, msg)
		}
	}
	return m, nil
}

func (m Model) mainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// text entry surfaces take every key first
	if m.noteOpen {
		return m.noteKey(msg)
	}
	if m.st.Stock.Open {
		return m.stockKey(msg)
	}
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "L":
		m.busy = true
		return m, logoutCmd(m.svc, m.timeout)
	}

	if m.st.IsAdmin() {
		return m.adminKey(msg)
	}
	return m.userKey(msg)
}

func (m Model) userKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		if m.pane == paneMenu {
			m.pane = paneCart
		} else {
			m.pane = paneMenu
		}
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter", "a":
		if m.pane == paneMenu && m.cursor < len(m.st.Menu) {
			m.st = session.AddToCart(m.st, m.st.Menu[m.cursor])
		}
	case "+", "=":
		if line, ok := m.selectedLine(); ok {
			m.st = session.SetQuantity(m.st, line, m.lineQuantity(line)+1)
		}
	case "-":
		if line, ok := m.selectedLine(); ok {
			m.st = session.SetQuantity(m.st, line, m.lineQuantity(line)-1)
		}
	case "d", "backspace":
		if line, ok := m.selectedLine(); ok {
			m.st = session.RemoveFromCart(m.st, line)
			m.clampCursors()
		}
	case "c":
		m.busy = true
		return m, submitCmd(m.svc, m.timeout, m.st.Cart)
	case "r":
		m.busy = true
		return m, menuCmd(m.svc, m.timeout)
	case "p":
		m.noteOpen = true
		m.note = ""
	}
	return m, nil
}

func (m Model) noteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.noteOpen = false
	case "enter":
		m.noteOpen = false
		m.busy = true
		return m, accessCmd(m.svc, m.timeout, m.note)
	default:
		m.note = typeInto(m.note, msg)
	}
	return m, nil
}

func (m Model) adminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tabs := enum.Tabs()
	switch key := msg.String(); key {
	case "left", "h":
		m.selectTab(tabs[(int(m.st.Tab)+len(tabs)-1)%len(tabs)])
	case "right", "l", "tab":
		m.selectTab(tabs[(int(m.st.Tab)+1)%len(tabs)])
	case "1", "2", "3", "4":
		m.selectTab(tabs[int(key[0]-'1')])
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "r":
		m.busy = true
		return m, dashboardCmd(m.svc, m.timeout)
	case "e":
		if m.st.Tab == enum.TabDashboard {
			id := 0
			if m.cursor < len(m.st.Dashboard.Menu) {
				id = m.st.Dashboard.Menu[m.cursor].ID
			}
			m.st = session.StockEditChanged(m.st, m.svc.Stock.Open(id))
		}
	case "a", "x":
		if m.st.Tab == enum.TabRequests && m.cursor < len(m.st.Dashboard.Requests) {
			req := m.st.Dashboard.Requests[m.cursor]
			if len(service.Actions(req)) == 0 {
				return m, nil
			}
			m.busy = true
			return m, decideCmd(m.svc, m.timeout, req.ID, key == "a")
		}
	}
	return m, nil
}

func (m Model) stockKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	edit := m.st.Stock
	switch msg.String() {
	case "esc":
		m.st = session.CloseStockEdit(m.st)
	case "enter":
		m.busy = true
		return m, stockCmd(m.svc, m.timeout, edit)
	case "up", "down":
		items := m.st.Dashboard.Menu
		if len(items) == 0 {
			return m, nil
		}
		i := 0
		for j, it := range items {
			if it.ID == edit.ItemID {
				i = j
			}
		}
		if msg.String() == "up" {
			i = (i + len(items) - 1) % len(items)
		} else {
			i = (i + 1) % len(items)
		}
		m.st = session.StockEditChanged(m.st, m.svc.Stock.Select(edit, items[i].ID))
	default:
		edit.Value = typeInto(edit.Value, msg)
		m.st = session.StockEditChanged(m.st, edit)
	}
	return m, nil
}

func (m *Model) selectTab(tab enum.Tab) {
	m.st = session.SelectTab(m.st, tab)
	m.cursor = 0
}

func (m *Model) moveCursor(delta int) {
	if m.pane == paneCart && !m.st.IsAdmin() {
		m.cartCursor = clamp(m.cartCursor+delta, m.st.Cart.Len())
		return
	}
	m.cursor = clamp(m.cursor+delta, m.rows())
}

// selectedLine is the item id of the cart line under the cursor.
func (m Model) selectedLine() (int, bool) {
	lines := m.st.Cart.Lines()
	if m.pane != paneCart || m.cartCursor >= len(lines) {
		return 0, false
	}
	return lines[m.cartCursor].ItemID, true
}

func (m Model) lineQuantity(itemID int) int {
	line, _ := m.st.Cart.Line(itemID)
	return line.Quantity
}

func typeInto(s string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(s); len(r) > 0 {
			return string(r[:len(r)-1])
		}
	case tea.KeySpace:
		return s + " "
	case tea.KeyRunes:
		return s + string(msg.Runes)
	}
	return s
}
