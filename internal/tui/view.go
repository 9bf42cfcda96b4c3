package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/campushub/cafe/internal/enum"
	"github.com/campushub/cafe/internal/service"
)

func (m Model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Campus Cafe")
	fmt.Fprintln(b, "")

	switch m.screen {
	case screenLogin, screenRegister:
		m.viewLogin(b)
	default:
		if m.st.IsAdmin() {
			m.viewAdmin(b)
		} else {
			m.viewUser(b)
		}
	}

	if m.busy {
		fmt.Fprintln(b, "\nWorking...")
	}
	return b.String()
}

func (m Model) viewLogin(b *strings.Builder) {
	title, other := "Login", "register"
	if m.screen == screenRegister {
		title, other = "Register", "login"
	}
	fmt.Fprintf(b, "%s\n\n", title)

	fields := []struct {
		label, value string
	}{
		{"Username", m.username},
		{"Password", strings.Repeat("*", len([]rune(m.password)))},
	}
	for i, f := range fields {
		marker := " "
		if i == m.field {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %s: %s\n", marker, f.label, f.value)
	}

	if m.status != "" {
		fmt.Fprintf(b, "\n%s\n", m.status)
	}
	fmt.Fprintf(b, "\nControls: tab switch field, enter submit, ctrl+r %s instead, esc quit\n", other)
}

func (m Model) viewUser(b *strings.Builder) {
	fmt.Fprintf(b, "Logged in as %s (%s)\n\n", m.st.Username, m.st.RoleName)

	fmt.Fprintln(b, "Menu:")
	if len(m.st.Menu) == 0 {
		fmt.Fprintln(b, "   nothing available right now")
	}
	for i, it := range m.st.Menu {
		marker := " "
		if m.pane == paneMenu && i == m.cursor {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-18s %-10s Rs. %8s  stock %d\n", marker, it.Name, it.Category, it.Price.StringFixed(2), it.Stock)
	}

	fmt.Fprintln(b, "\nCart:")
	if m.st.Cart.IsEmpty() {
		fmt.Fprintln(b, "   empty")
	}
	for i, l := range m.st.Cart.Lines() {
		marker := " "
		if m.pane == paneCart && i == m.cartCursor {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-18s %d/%d  Rs. %s\n", marker, l.Name, l.Quantity, l.StockAtAdd, l.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(b, "   Total: Rs. %s\n", m.st.Cart.Total().StringFixed(2))

	if m.st.Message != "" {
		fmt.Fprintf(b, "\n%s\n", m.st.Message)
	}
	if m.st.RequestMessage != "" {
		fmt.Fprintf(b, "Admin request: %s\n", m.st.RequestMessage)
	}
	if m.noteOpen {
		fmt.Fprintf(b, "\nWhy do you need admin access? %s_\n(enter send, esc cancel)\n", m.note)
		return
	}
	fmt.Fprintln(b, "\nControls: tab menu/cart, up/down select, enter add, +/- quantity, d remove, c checkout, r refresh, p request admin, L logout, q quit")
}

func (m Model) viewAdmin(b *strings.Builder) {
	fmt.Fprintf(b, "Logged in as %s (%s)\n\n", m.st.Username, m.st.RoleName)

	var tabs []string
	for _, t := range enum.Tabs() {
		if t == m.st.Tab {
			tabs = append(tabs, "["+t.String()+"]")
		} else {
			tabs = append(tabs, " "+t.String()+" ")
		}
	}
	fmt.Fprintln(b, strings.Join(tabs, " "))
	if failed := failedSections(m.st.Dashboard); len(failed) > 0 {
		fmt.Fprintf(b, "stale: %s\n", strings.Join(failed, ", "))
	}
	fmt.Fprintln(b, "")

	d := m.st.Dashboard
	switch m.st.Tab {
	case enum.TabOrders:
		m.sectionError(b, service.SectionOrders)
		if len(d.Orders) == 0 {
			fmt.Fprintln(b, "   no orders yet")
		}
		for i, o := range d.Orders {
			fmt.Fprintf(b, " %s #%-5d %-12s Rs. %8s  %s  %s\n", m.marker(i), o.ID, o.Username, o.TotalAmount.StringFixed(2), o.CreatedAt, o.Items)
		}

	case enum.TabUsers:
		m.sectionError(b, service.SectionUsers)
		for i, u := range d.Users {
			fmt.Fprintf(b, " %s %-4d %-16s %s\n", m.marker(i), u.ID, u.Username, u.Role)
		}

	case enum.TabRequests:
		m.sectionError(b, service.SectionRequests)
		if len(d.Requests) == 0 {
			fmt.Fprintln(b, "   no requests")
		}
		for i, r := range d.Requests {
			status := r.Status
			if actions := service.Actions(r); len(actions) > 0 && i == m.cursor {
				status = "[a]pprove / [x] reject"
			}
			fmt.Fprintf(b, " %s %-4d %-16s %-24s %s  %s\n", m.marker(i), r.ID, r.Username, status, r.CreatedAt, r.Note)
		}

	default:
		m.sectionError(b, service.SectionSummary)
		fmt.Fprintf(b, "Users: %d   Orders: %d   Revenue: Rs. %s\n", d.Summary.TotalUsers, d.Summary.TotalOrders, d.Summary.TotalRevenue.StringFixed(2))
		fmt.Fprintf(b, "Menu items: %d   Total stock: %d\n\n", d.TotalItems, d.TotalStock)
		m.sectionError(b, service.SectionMenu)
		for i, it := range d.Menu {
			fmt.Fprintf(b, " %s %-18s %-10s Rs. %8s  stock %d\n", m.marker(i), it.Name, it.Category, it.Price.StringFixed(2), it.Stock)
		}
	}

	if m.st.Stock.Open {
		name := "none"
		for _, it := range d.Menu {
			if it.ID == m.st.Stock.ItemID {
				name = it.Name
			}
		}
		fmt.Fprintf(b, "\nEdit stock of %s: %s_\n(up/down item, enter save, esc cancel)\n", name, m.st.Stock.Value)
	}
	if m.st.Message != "" {
		fmt.Fprintf(b, "\n%s\n", m.st.Message)
	}
	if !m.st.Stock.Open {
		fmt.Fprintln(b, "\nControls: left/right or 1-4 tabs, up/down select, e edit stock, a/x approve/reject, r refresh, L logout, q quit")
	}
}

func (m Model) marker(i int) string {
	if i == m.cursor {
		return ">"
	}
	return " "
}

func (m Model) sectionError(b *strings.Builder, s service.Section) {
	if msg, ok := m.st.Dashboard.Errors[s]; ok {
		fmt.Fprintf(b, "(%s could not be refreshed: %s)\n", s, msg)
	}
}

// failedSections lists the sections whose last refresh failed, sorted.
func failedSections(d service.Dashboard) []string {
	var out []string
	for s := range d.Errors {
		out = append(out, string(s))
	}
	sort.Strings(out)
	return out
}
