// Package console holds the shipment console: the hierarchical selection
// state (shipment, shipment-warehouse, box) and the actions that mutate the
// backend and reload the affected lists.
//
// A Console is not safe for concurrent use; callers serialize actions per
// session.
package console

//go:generate mockgen -source ./console.go -destination=./mocks/console.go -package=mock_console

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/metrics"
)

// Placeholder is the label shown for an empty selection.
const Placeholder = "not selected"

var (
	ErrNameRequired        = errors.New("name is required")
	ErrBarcodeRequired     = errors.New("barcode is required")
	ErrNoSource            = errors.New("select a source first")
	ErrNoWarehouse         = errors.New("select a warehouse first")
	ErrNoShipment          = errors.New("select a shipment first")
	ErrNoShipmentWarehouse = errors.New("select a shipment warehouse first")
	ErrNoBox               = errors.New("select a box first")
	ErrNotListed           = errors.New("item is not in the current list")
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled")
)

type API interface {
	ListSources(ctx context.Context) ([]fbo.Source, error)
	CreateSource(ctx context.Context, name string) (*fbo.Source, error)
	DeleteSource(ctx context.Context, id int64) error

	ListWarehouses(ctx context.Context) ([]fbo.Warehouse, error)
	CreateWarehouse(ctx context.Context, name string) (*fbo.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id int64) error

	ListShipments(ctx context.Context) ([]fbo.Shipment, error)
	CreateShipment(ctx context.Context, sourceID int64) (*fbo.Shipment, error)
	DeleteShipment(ctx context.Context, id int64) error

	ListShipmentWarehouses(ctx context.Context, shipmentID int64) ([]fbo.ShipmentWarehouse, error)
	AttachWarehouse(ctx context.Context, shipmentID, warehouseID int64, wbCode string) (*fbo.ShipmentWarehouse, error)
	DeleteShipmentWarehouse(ctx context.Context, id int64) error

	ListBoxes(ctx context.Context, shipmentWarehouseID int64) ([]fbo.Box, error)
	CreateBox(ctx context.Context, shipmentWarehouseID int64) (*fbo.Box, error)
	DeleteBox(ctx context.Context, id int64) error

	RecentScans(ctx context.Context, shipmentID int64) ([]fbo.ScanEvent, error)
	Scan(ctx context.Context, boxID int64, barcode string) (*fbo.ScanEvent, error)
	DeleteScan(ctx context.Context, id int64) error
	UndoLastScan(ctx context.Context, boxID int64) error
}

// Prompter shows blocking messages to the operator and asks for
// confirmation before destructive actions.
type Prompter interface {
	Alert(msg string)
	Confirm(msg string) bool
}

// State is the full UI state of one console. Lists are replaced wholesale
// on every fetch.
type State struct {
	Sources            []fbo.Source
	Warehouses         []fbo.Warehouse
	Shipments          []fbo.Shipment
	ShipmentWarehouses []fbo.ShipmentWarehouse
	Boxes              []fbo.Box
	Scans              []fbo.ScanEvent

	SelectedSourceID    int64
	SelectedWarehouseID int64

	ActiveShipmentID          int64
	ActiveShipmentWarehouseID int64
	ActiveBoxID               int64
}

func (s State) ActiveShipment() *fbo.Shipment {
	for i := range s.Shipments {
		if s.Shipments[i].ID == s.ActiveShipmentID {
			return &s.Shipments[i]
		}
	}
	return nil
}

func (s State) ActiveShipmentWarehouse() *fbo.ShipmentWarehouse {
	for i := range s.ShipmentWarehouses {
		if s.ShipmentWarehouses[i].ID == s.ActiveShipmentWarehouseID {
			return &s.ShipmentWarehouses[i]
		}
	}
	return nil
}

func (s State) ActiveBox() *fbo.Box {
	for i := range s.Boxes {
		if s.Boxes[i].ID == s.ActiveBoxID {
			return &s.Boxes[i]
		}
	}
	return nil
}

func (s State) ShipmentLabel() string {
	if sh := s.ActiveShipment(); sh != nil {
		return sh.PublicID
	}
	return Placeholder
}

func (s State) ShipmentWarehouseLabel() string {
	sw := s.ActiveShipmentWarehouse()
	if sw == nil {
		return Placeholder
	}
	if sw.WBCode != "" {
		return sw.WarehouseName + " / " + sw.WBCode
	}
	return sw.WarehouseName
}

func (s State) BoxLabel() string {
	if b := s.ActiveBox(); b != nil {
		return "Box #" + strconv.Itoa(b.BoxNo)
	}
	return Placeholder
}

type Console struct {
	api    API
	prompt Prompter
	logger *zap.Logger
	state  State
}

func New(api API, prompt Prompter, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{api: api, prompt: prompt, logger: logger}
}

// State returns a snapshot of the console state.
func (c *Console) State() State {
	return c.state
}

// report alerts the operator about a failed action. Declined confirmations
// are silent.
func (c *Console) report(action string, err error) error {
	if err == nil || errors.Is(err, ErrCancelled) {
		return err
	}
	metrics.AlertsTotal.WithLabelValues(action).Inc()
	c.logger.Info("console alert", zap.String("action", action), zap.Error(err))
	c.prompt.Alert(err.Error())
	return err
}

func (c *Console) confirm(msg string) error {
	if !c.prompt.Confirm(msg) {
		return ErrCancelled
	}
	return nil
}
