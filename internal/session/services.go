package session

import (
	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/menu"
	"github.com/campushub/cafe/internal/service"
)

// Services are the components bound to one backend session. They share one
// catalog, so a refresh triggered anywhere is visible everywhere.
type Services struct {
	Client    *backend.Client
	Catalog   *menu.Catalog
	Orders    *service.OrderSubmitter
	Dashboard *service.DashboardAggregator
	Access    *service.AccessWorkflow
	Stock     *service.StockEditor
}

// NewServices wires the components around client. failures may be nil.
func NewServices(client *backend.Client, failures service.FailureRecorder) *Services {
	catalog := menu.NewCatalog(client)
	dash := service.NewDashboardAggregator(catalog, client)
	if failures != nil {
		dash.WithFailureRecorder(failures)
	}
	return &Services{
		Client:    client,
		Catalog:   catalog,
		Orders:    service.NewOrderSubmitter(client, catalog),
		Dashboard: dash,
		Access:    service.NewAccessWorkflow(client, dash),
		Stock:     service.NewStockEditor(client, catalog),
	}
}
