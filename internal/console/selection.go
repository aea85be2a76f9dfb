package console

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
)

// Init loads the three top-level lists concurrently, applies them in order
// and cascades the auto-selection down to the scan list.
func (c *Console) Init(ctx context.Context) error {
	top, err := c.fetchTopLevel(ctx)
	if err != nil {
		return c.report("init", err)
	}
	c.applySources(top.sources)
	c.applyWarehouses(top.warehouses)
	return c.report("init", c.applyShipments(ctx, top.shipments, 0))
}

type topLevel struct {
	sources    []fbo.Source
	warehouses []fbo.Warehouse
	shipments  []fbo.Shipment
}

func (c *Console) fetchTopLevel(ctx context.Context) (topLevel, error) {
	var top topLevel
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		top.sources, err = c.api.ListSources(gctx)
		return err
	})
	g.Go(func() (err error) {
		top.warehouses, err = c.api.ListWarehouses(gctx)
		return err
	})
	g.Go(func() (err error) {
		top.shipments, err = c.api.ListShipments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return topLevel{}, err
	}
	return top, nil
}

func (c *Console) SelectSource(id int64) error {
	if !containsID(c.state.Sources, id, func(s fbo.Source) int64 { return s.ID }) {
		return c.report("select_source", fmt.Errorf("source %d: %w", id, ErrNotListed))
	}
	c.state.SelectedSourceID = id
	return nil
}

func (c *Console) SelectWarehouse(id int64) error {
	if !containsID(c.state.Warehouses, id, func(w fbo.Warehouse) int64 { return w.ID }) {
		return c.report("select_warehouse", fmt.Errorf("warehouse %d: %w", id, ErrNotListed))
	}
	c.state.SelectedWarehouseID = id
	return nil
}

// SelectShipment clears the shipment-warehouse and box selection and
// reloads the shipment-warehouse list.
func (c *Console) SelectShipment(ctx context.Context, id int64) error {
	if !containsID(c.state.Shipments, id, func(s fbo.Shipment) int64 { return s.ID }) {
		return c.report("select_shipment", fmt.Errorf("shipment %d: %w", id, ErrNotListed))
	}
	c.setShipment(id)
	return c.report("select_shipment", c.loadShipmentWarehouses(ctx, 0))
}

// SelectShipmentWarehouse clears the box selection and reloads boxes.
func (c *Console) SelectShipmentWarehouse(ctx context.Context, id int64) error {
	if !containsID(c.state.ShipmentWarehouses, id, func(sw fbo.ShipmentWarehouse) int64 { return sw.ID }) {
		return c.report("select_shipment_warehouse", fmt.Errorf("shipment warehouse %d: %w", id, ErrNotListed))
	}
	c.setShipmentWarehouse(id)
	return c.report("select_shipment_warehouse", c.loadBoxes(ctx, 0))
}

// SelectBox reloads only the scan list.
func (c *Console) SelectBox(ctx context.Context, id int64) error {
	if !containsID(c.state.Boxes, id, func(b fbo.Box) int64 { return b.ID }) {
		return c.report("select_box", fmt.Errorf("box %d: %w", id, ErrNotListed))
	}
	c.state.ActiveBoxID = id
	return c.report("select_box", c.loadScans(ctx))
}

func (c *Console) setShipment(id int64) {
	c.state.ActiveShipmentID = id
	c.setShipmentWarehouse(0)
	c.state.ShipmentWarehouses = nil
}

func (c *Console) setShipmentWarehouse(id int64) {
	c.state.ActiveShipmentWarehouseID = id
	c.state.ActiveBoxID = 0
	c.state.Boxes = nil
	c.state.Scans = nil
}

func (c *Console) loadSources(ctx context.Context) error {
	items, err := c.api.ListSources(ctx)
	if err != nil {
		return err
	}
	c.applySources(items)
	return nil
}

func (c *Console) applySources(items []fbo.Source) {
	c.state.Sources = items
	c.state.SelectedSourceID = pick(items, c.state.SelectedSourceID, 0, func(s fbo.Source) int64 { return s.ID })
}

func (c *Console) loadWarehouses(ctx context.Context) error {
	items, err := c.api.ListWarehouses(ctx)
	if err != nil {
		return err
	}
	c.applyWarehouses(items)
	return nil
}

func (c *Console) applyWarehouses(items []fbo.Warehouse) {
	c.state.Warehouses = items
	c.state.SelectedWarehouseID = pick(items, c.state.SelectedWarehouseID, 0, func(w fbo.Warehouse) int64 { return w.ID })
}

// loadShipments refreshes the shipment list. prefer, when listed, becomes
// the active shipment.
func (c *Console) loadShipments(ctx context.Context, prefer int64) error {
	items, err := c.api.ListShipments(ctx)
	if err != nil {
		return err
	}
	return c.applyShipments(ctx, items, prefer)
}

func (c *Console) applyShipments(ctx context.Context, items []fbo.Shipment, prefer int64) error {
	c.state.Shipments = items
	target := pick(items, c.state.ActiveShipmentID, prefer, func(s fbo.Shipment) int64 { return s.ID })
	if target == c.state.ActiveShipmentID {
		return nil
	}
	c.setShipment(target)
	if target == 0 {
		return nil
	}
	return c.loadShipmentWarehouses(ctx, 0)
}

func (c *Console) loadShipmentWarehouses(ctx context.Context, prefer int64) error {
	if c.state.ActiveShipmentID == 0 {
		c.setShipment(0)
		return nil
	}
	items, err := c.api.ListShipmentWarehouses(ctx, c.state.ActiveShipmentID)
	if err != nil {
		return err
	}
	c.state.ShipmentWarehouses = items
	target := pick(items, c.state.ActiveShipmentWarehouseID, prefer, func(sw fbo.ShipmentWarehouse) int64 { return sw.ID })
	if target == c.state.ActiveShipmentWarehouseID {
		return nil
	}
	c.setShipmentWarehouse(target)
	if target == 0 {
		return nil
	}
	return c.loadBoxes(ctx, 0)
}

// reloadBelowShipment refetches the shipment-warehouse, box and scan lists
// of the active shipment even when no selection changes.
func (c *Console) reloadBelowShipment(ctx context.Context) error {
	if c.state.ActiveShipmentID == 0 {
		c.setShipment(0)
		return nil
	}
	items, err := c.api.ListShipmentWarehouses(ctx, c.state.ActiveShipmentID)
	if err != nil {
		return err
	}
	c.state.ShipmentWarehouses = items
	target := pick(items, c.state.ActiveShipmentWarehouseID, 0, func(sw fbo.ShipmentWarehouse) int64 { return sw.ID })
	if target != c.state.ActiveShipmentWarehouseID {
		c.setShipmentWarehouse(target)
	}
	return c.loadBoxes(ctx, 0)
}

// loadBoxes refreshes the box list and always reloads scans afterwards.
func (c *Console) loadBoxes(ctx context.Context, prefer int64) error {
	if c.state.ActiveShipmentWarehouseID == 0 {
		c.setShipmentWarehouse(0)
		return nil
	}
	items, err := c.api.ListBoxes(ctx, c.state.ActiveShipmentWarehouseID)
	if err != nil {
		return err
	}
	c.state.Boxes = items
	c.state.ActiveBoxID = pick(items, c.state.ActiveBoxID, prefer, func(b fbo.Box) int64 { return b.ID })
	return c.loadScans(ctx)
}

func (c *Console) loadScans(ctx context.Context) error {
	if c.state.ActiveBoxID == 0 || c.state.ActiveShipmentID == 0 {
		c.state.Scans = nil
		return nil
	}
	items, err := c.api.RecentScans(ctx, c.state.ActiveShipmentID)
	if err != nil {
		return err
	}
	c.state.Scans = items
	return nil
}

// pick resolves the selection after a list reload: prefer if listed, else
// the current id if still listed, else the first item, else zero.
func pick[T any](items []T, current, prefer int64, id func(T) int64) int64 {
	if prefer != 0 && containsID(items, prefer, id) {
		return prefer
	}
	if current != 0 && containsID(items, current, id) {
		return current
	}
	if len(items) > 0 {
		return id(items[0])
	}
	return 0
}

func containsID[T any](items []T, want int64, id func(T) int64) bool {
	for _, item := range items {
		if id(item) == want {
			return true
		}
	}
	return false
}
