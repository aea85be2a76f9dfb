package fbo

import "encoding/json"

type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Language string `json:"language"`
}

type Source struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Warehouse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Shipment struct {
	ID              int64  `json:"id"`
	PublicID        string `json:"public_id"`
	SourceName      string `json:"source_name"`
	Status          string `json:"status"`
	WarehousesCount int    `json:"warehouses_count"`
}

// ShipmentWarehouse links one shipment to one destination warehouse.
type ShipmentWarehouse struct {
	ID            int64  `json:"id"`
	WarehouseID   int64  `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	WBCode        string `json:"wb_code"`
}

type Box struct {
	ID        int64  `json:"id"`
	BoxNo     int    `json:"box_no"`
	CreatedAt string `json:"created_at"`
}

type ScanEvent struct {
	ID              int64  `json:"id"`
	Barcode         string `json:"barcode"`
	BoxID           int64  `json:"box_id"`
	BoxNo           int    `json:"box_no"`
	CreatedAt       string `json:"created_at"`
	CreatedByUserID int64  `json:"created_by_user_id"`
}

// Result is the envelope every backend endpoint answers with.
type Result struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Items   json.RawMessage `json:"items,omitempty"`
	Item    json.RawMessage `json:"item,omitempty"`
	Profile json.RawMessage `json:"profile,omitempty"`
}

type ProfileUpdate struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Language string `json:"language"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type createShipmentRequest struct {
	SourceID int64 `json:"source_id"`
}

type attachWarehouseRequest struct {
	WarehouseID int64  `json:"warehouse_id"`
	WBCode      string `json:"wb_code,omitempty"`
}

type createBoxRequest struct {
	ShipmentWarehouseID int64 `json:"shipment_warehouse_id"`
}

type scanRequest struct {
	BoxID   int64  `json:"box_id"`
	Barcode string `json:"barcode"`
}

type undoScanRequest struct {
	BoxID int64 `json:"box_id"`
}
