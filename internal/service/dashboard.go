package service

import (
	"context"
	"log"
	"sync"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/menu"
)

// Section names one independently loaded part of the admin dashboard.
type Section string

const (
	SectionMenu     Section = "menu"
	SectionSummary  Section = "summary"
	SectionOrders   Section = "orders"
	SectionUsers    Section = "users"
	SectionRequests Section = "requests"
)

// AllSections lists every dashboard section.
func AllSections() []Section {
	return []Section{SectionMenu, SectionSummary, SectionOrders, SectionUsers, SectionRequests}
}

// DashboardSource defines the backend calls needed by the dashboard besides the menu.
// Satisfied by *backend.Client.
type DashboardSource interface {
	GetSummary(ctx context.Context) (*backend.Summary, error)
	ListOrders(ctx context.Context) ([]backend.OrderRecord, error)
	ListUsers(ctx context.Context) ([]backend.UserAccount, error)
	ListAdminRequests(ctx context.Context) ([]backend.AdminRequest, error)
}

// FailureRecorder is told which section failed. Satisfied by *metrics.Upstream.
type FailureRecorder interface {
	SourceFailed(section string)
}

// Dashboard is a point-in-time copy of everything the admin view shows.
type Dashboard struct {
	Menu     []backend.MenuItem     `json:"menu"`
	Summary  backend.Summary        `json:"summary"`
	Orders   []backend.OrderRecord  `json:"orders"`
	Users    []backend.UserAccount  `json:"users"`
	Requests []backend.AdminRequest `json:"requests"`

	// Computed locally from Menu, independent of Summary.
	TotalItems int `json:"total_items"`
	TotalStock int `json:"total_stock"`

	// Last refresh error per section; absent when the section loaded.
	Errors map[Section]string `json:"errors,omitempty"`
}

// DashboardAggregator loads the five dashboard sections independently. A
// section that fails keeps its previous value and never blocks the others.
type DashboardAggregator struct {
	catalog  *menu.Catalog
	src      DashboardSource
	failures FailureRecorder

	mu       sync.RWMutex
	summary  backend.Summary
	orders   []backend.OrderRecord
	users    []backend.UserAccount
	requests []backend.AdminRequest
	errs     map[Section]error
}

// NewDashboardAggregator creates an aggregator whose menu section is catalog.
func NewDashboardAggregator(catalog *menu.Catalog, src DashboardSource) *DashboardAggregator {
	return &DashboardAggregator{
		catalog:  catalog,
		src:      src,
		orders:   []backend.OrderRecord{},
		users:    []backend.UserAccount{},
		requests: []backend.AdminRequest{},
		errs:     make(map[Section]error),
	}
}

// WithFailureRecorder attaches a FailureRecorder and returns the aggregator.
func (a *DashboardAggregator) WithFailureRecorder(f FailureRecorder) *DashboardAggregator {
	a.failures = f
	return a
}

// Refresh reloads the given sections, or all of them when none are given.
// Sections load concurrently and may finish in any order; each one only
// writes its own data.
func (a *DashboardAggregator) Refresh(ctx context.Context, sections ...Section) Dashboard {
	if len(sections) == 0 {
		sections = AllSections()
	}

	seen := make(map[Section]bool, len(sections))
	var wg sync.WaitGroup
	for _, s := range sections {
		if seen[s] {
			continue
		}
		seen[s] = true

		wg.Add(1)
		go func(s Section) {
			defer wg.Done()
			a.record(s, a.fetch(ctx, s))
		}(s)
	}
	wg.Wait()

	return a.Snapshot()
}

func (a *DashboardAggregator) fetch(ctx context.Context, s Section) error {
	switch s {
	case SectionMenu:
		_, err := a.catalog.Refresh(ctx)
		return err

	case SectionSummary:
		summary, err := a.src.GetSummary(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.summary = *summary
		a.mu.Unlock()

	case SectionOrders:
		orders, err := a.src.ListOrders(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.orders = nonNil(orders)
		a.mu.Unlock()

	case SectionUsers:
		users, err := a.src.ListUsers(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.users = nonNil(users)
		a.mu.Unlock()

	case SectionRequests:
		requests, err := a.src.ListAdminRequests(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.requests = nonNil(requests)
		a.mu.Unlock()
	}
	return nil
}

func (a *DashboardAggregator) record(s Section, err error) {
	a.mu.Lock()
	if err != nil {
		a.errs[s] = err
	} else {
		delete(a.errs, s)
	}
	a.mu.Unlock()

	if err != nil {
		log.Printf("ERROR: dashboard %s: %v", s, err)
		if a.failures != nil {
			a.failures.SourceFailed(string(s))
		}
	}
}

// Snapshot returns the current dashboard without fetching anything.
func (a *DashboardAggregator) Snapshot() Dashboard {
	items := a.catalog.All()

	a.mu.RLock()
	defer a.mu.RUnlock()

	d := Dashboard{
		Menu:       items,
		Summary:    a.summary,
		Orders:     append([]backend.OrderRecord{}, a.orders...),
		Users:      append([]backend.UserAccount{}, a.users...),
		Requests:   append([]backend.AdminRequest{}, a.requests...),
		TotalItems: len(items),
	}
	for _, it := range items {
		d.TotalStock += it.Stock
	}
	if len(a.errs) > 0 {
		d.Errors = make(map[Section]string, len(a.errs))
		for s, err := range a.errs {
			d.Errors[s] = err.Error()
		}
	}
	return d
}

// Request returns the last known state of an access request.
func (a *DashboardAggregator) Request(id int) (backend.AdminRequest, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, r := range a.requests {
		if r.ID == id {
			return r, true
		}
	}
	return backend.AdminRequest{}, false
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
