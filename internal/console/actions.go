package console

import (
	"context"
	"strings"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/metrics"
)

// Refresh refetches every list down to the scans, keeping the current
// selection where it is still listed.
func (c *Console) Refresh(ctx context.Context) error {
	top, err := c.fetchTopLevel(ctx)
	if err != nil {
		return c.report("refresh", err)
	}
	c.applySources(top.sources)
	c.applyWarehouses(top.warehouses)

	c.state.Shipments = top.shipments
	target := pick(top.shipments, c.state.ActiveShipmentID, 0, func(s fbo.Shipment) int64 { return s.ID })
	if target != c.state.ActiveShipmentID {
		c.setShipment(target)
	}
	return c.report("refresh", c.reloadBelowShipment(ctx))
}

func (c *Console) CreateSource(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return c.report("create_source", ErrNameRequired)
	}
	if _, err := c.api.CreateSource(ctx, name); err != nil {
		return c.report("create_source", err)
	}
	return c.report("create_source", c.loadSources(ctx))
}

func (c *Console) DeleteSource(ctx context.Context, id int64) error {
	if err := c.confirm("Delete this source?"); err != nil {
		return err
	}
	if err := c.api.DeleteSource(ctx, id); err != nil {
		return c.report("delete_source", err)
	}
	return c.report("delete_source", c.loadSources(ctx))
}

func (c *Console) CreateWarehouse(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return c.report("create_warehouse", ErrNameRequired)
	}
	if _, err := c.api.CreateWarehouse(ctx, name); err != nil {
		return c.report("create_warehouse", err)
	}
	return c.report("create_warehouse", c.loadWarehouses(ctx))
}

func (c *Console) DeleteWarehouse(ctx context.Context, id int64) error {
	if err := c.confirm("Delete this warehouse?"); err != nil {
		return err
	}
	if err := c.api.DeleteWarehouse(ctx, id); err != nil {
		return c.report("delete_warehouse", err)
	}
	return c.report("delete_warehouse", c.loadWarehouses(ctx))
}

// CreateShipment creates a shipment for sourceID and makes it active.
func (c *Console) CreateShipment(ctx context.Context, sourceID int64) error {
	if sourceID == 0 {
		return c.report("create_shipment", ErrNoSource)
	}
	c.state.SelectedSourceID = sourceID
	created, err := c.api.CreateShipment(ctx, sourceID)
	if err != nil {
		return c.report("create_shipment", err)
	}
	var prefer int64
	if created != nil {
		prefer = created.ID
	}
	return c.report("create_shipment", c.loadShipments(ctx, prefer))
}

func (c *Console) DeleteShipment(ctx context.Context, id int64) error {
	if err := c.confirm("Delete this shipment?"); err != nil {
		return err
	}
	if err := c.api.DeleteShipment(ctx, id); err != nil {
		return c.report("delete_shipment", err)
	}
	if id == c.state.ActiveShipmentID {
		c.setShipment(0)
	}
	return c.report("delete_shipment", c.loadShipments(ctx, 0))
}

// AttachWarehouse links warehouseID to the active shipment. The shipment
// list is reloaded too so warehouse counts stay current.
func (c *Console) AttachWarehouse(ctx context.Context, warehouseID int64, wbCode string) error {
	if c.state.ActiveShipmentID == 0 {
		return c.report("attach_warehouse", ErrNoShipment)
	}
	if warehouseID == 0 {
		return c.report("attach_warehouse", ErrNoWarehouse)
	}
	c.state.SelectedWarehouseID = warehouseID
	if _, err := c.api.AttachWarehouse(ctx, c.state.ActiveShipmentID, warehouseID, strings.TrimSpace(wbCode)); err != nil {
		return c.report("attach_warehouse", err)
	}
	if err := c.loadShipmentWarehouses(ctx, 0); err != nil {
		return c.report("attach_warehouse", err)
	}
	return c.report("attach_warehouse", c.loadShipments(ctx, 0))
}

func (c *Console) DeleteShipmentWarehouse(ctx context.Context, id int64) error {
	if err := c.confirm("Remove this warehouse from the shipment?"); err != nil {
		return err
	}
	if err := c.api.DeleteShipmentWarehouse(ctx, id); err != nil {
		return c.report("delete_shipment_warehouse", err)
	}
	if id == c.state.ActiveShipmentWarehouseID {
		c.setShipmentWarehouse(0)
	}
	if err := c.loadShipmentWarehouses(ctx, 0); err != nil {
		return c.report("delete_shipment_warehouse", err)
	}
	return c.report("delete_shipment_warehouse", c.loadShipments(ctx, 0))
}

// CreateBox opens a new box in the active shipment-warehouse and makes it
// active.
func (c *Console) CreateBox(ctx context.Context) error {
	if c.state.ActiveShipmentWarehouseID == 0 {
		return c.report("create_box", ErrNoShipmentWarehouse)
	}
	created, err := c.api.CreateBox(ctx, c.state.ActiveShipmentWarehouseID)
	if err != nil {
		return c.report("create_box", err)
	}
	var prefer int64
	if created != nil {
		prefer = created.ID
	}
	return c.report("create_box", c.loadBoxes(ctx, prefer))
}

func (c *Console) DeleteBox(ctx context.Context, id int64) error {
	if err := c.confirm("Delete this box?"); err != nil {
		return err
	}
	if err := c.api.DeleteBox(ctx, id); err != nil {
		return c.report("delete_box", err)
	}
	if id == c.state.ActiveBoxID {
		c.state.ActiveBoxID = 0
	}
	return c.report("delete_box", c.loadBoxes(ctx, 0))
}

func (c *Console) Scan(ctx context.Context, barcode string) error {
	if c.state.ActiveBoxID == 0 {
		return c.report("scan", ErrNoBox)
	}
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return c.report("scan", ErrBarcodeRequired)
	}
	if _, err := c.api.Scan(ctx, c.state.ActiveBoxID, barcode); err != nil {
		return c.report("scan", err)
	}
	metrics.ScansRecordedTotal.Inc()
	return c.report("scan", c.loadScans(ctx))
}

func (c *Console) DeleteScan(ctx context.Context, id int64) error {
	if err := c.confirm("Delete this scan?"); err != nil {
		return err
	}
	if err := c.api.DeleteScan(ctx, id); err != nil {
		return c.report("delete_scan", err)
	}
	return c.report("delete_scan", c.loadScans(ctx))
}

// UndoLastScan removes the most recent scan of the active box.
func (c *Console) UndoLastScan(ctx context.Context) error {
	if c.state.ActiveBoxID == 0 {
		return c.report("undo_scan", ErrNoBox)
	}
	if err := c.api.UndoLastScan(ctx, c.state.ActiveBoxID); err != nil {
		return c.report("undo_scan", err)
	}
	return c.report("undo_scan", c.loadScans(ctx))
}
