// Package fbotest provides an in-memory FBO backend for tests.
package fbotest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
)

type shipment struct {
	fbo.Shipment
	SourceID int64
}

type shipmentWarehouse struct {
	fbo.ShipmentWarehouse
	ShipmentID int64
}

type box struct {
	fbo.Box
	ShipmentWarehouseID int64
}

type scan struct {
	fbo.ScanEvent
	ShipmentID int64
	seq        int64
}

type Backend struct {
	mu       sync.Mutex
	token    string
	nextID   int64
	requests []string

	profile            fbo.Profile
	sources            []fbo.Source
	warehouses         []fbo.Warehouse
	shipments          []shipment
	shipmentWarehouses []shipmentWarehouse
	boxes              []box
	scans              []scan

	server *httptest.Server
}

// New starts a backend accepting only token and stops it when t finishes.
func New(t testing.TB, token string) *Backend {
	t.Helper()
	b := &Backend{
		token:   token,
		profile: fbo.Profile{ID: 7, Username: "operator", Email: "operator@example.com"},
	}
	b.server = httptest.NewServer(b.Handler())
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.server.URL
}

// Requests lists the calls received so far as "METHOD /path".
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.requests))
	copy(out, b.requests)
	return out
}

func (b *Backend) ResetRequests() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

func (b *Backend) SetProfile(p fbo.Profile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profile = p
}

func (b *Backend) AddSource(name string) fbo.Source {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := fbo.Source{ID: b.id(), Name: name}
	b.sources = append(b.sources, s)
	return s
}

func (b *Backend) AddWarehouse(name string) fbo.Warehouse {
	b.mu.Lock()
	defer b.mu.Unlock()
	w := fbo.Warehouse{ID: b.id(), Name: name}
	b.warehouses = append(b.warehouses, w)
	return w
}

func (b *Backend) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(b.record, b.authorize)

	r.HandleFunc("/api/profile", b.getProfile).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", b.saveProfile).Methods(http.MethodPost)

	r.HandleFunc("/api/fbo/sources", b.listSources).Methods(http.MethodGet)
	r.HandleFunc("/api/fbo/sources", b.createSource).Methods(http.MethodPost)
	r.HandleFunc("/api/fbo/sources/{id:[0-9]+}", b.deleteSource).Methods(http.MethodDelete)

	r.HandleFunc("/api/fbo/warehouses", b.listWarehouses).Methods(http.MethodGet)
	r.HandleFunc("/api/fbo/warehouses", b.createWarehouse).Methods(http.MethodPost)
	r.HandleFunc("/api/fbo/warehouses/{id:[0-9]+}", b.deleteWarehouse).Methods(http.MethodDelete)

	r.HandleFunc("/api/fbo/shipments", b.listShipments).Methods(http.MethodGet)
	r.HandleFunc("/api/fbo/shipments", b.createShipment).Methods(http.MethodPost)
	r.HandleFunc("/api/fbo/shipments/{id:[0-9]+}", b.deleteShipment).Methods(http.MethodDelete)
	r.HandleFunc("/api/fbo/shipments/{id:[0-9]+}/warehouses", b.listShipmentWarehouses).Methods(http.MethodGet)
	r.HandleFunc("/api/fbo/shipments/{id:[0-9]+}/warehouses", b.attachWarehouse).Methods(http.MethodPost)
	r.HandleFunc("/api/fbo/shipment-warehouses/{id:[0-9]+}", b.deleteShipmentWarehouse).Methods(http.MethodDelete)

	r.HandleFunc("/api/fbo/boxes", b.listBoxes).Methods(http.MethodGet)
	r.HandleFunc("/api/fbo/boxes", b.createBox).Methods(http.MethodPost)
	r.HandleFunc("/api/fbo/boxes/{id:[0-9]+}", b.deleteBox).Methods(http.MethodDelete)

	r.HandleFunc("/api/fbo/scans/recent", b.recentScans).Methods(http.MethodGet)
	r.HandleFunc("/api/fbo/scans/undo-last", b.undoLastScan).Methods(http.MethodPost)
	r.HandleFunc("/api/fbo/scans", b.createScan).Methods(http.MethodPost)
	r.HandleFunc("/api/fbo/scans/{id:[0-9]+}", b.deleteScan).Methods(http.MethodDelete)

	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondOK(w http.ResponseWriter, key string, value interface{}) {
	body := map[string]interface{}{"success": true}
	if key != "" {
		body[key] = value
	}
	respondJSON(w, http.StatusOK, body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{"success": false, "error": message})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func queryID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return id
}

func decode(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (b *Backend) getProfile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	respondOK(w, "profile", b.profile)
}

func (b *Backend) saveProfile(w http.ResponseWriter, r *http.Request) {
	var req fbo.ProfileUpdate
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	// Only the username is persisted server side.
	if name := strings.TrimSpace(req.Username); name != "" {
		b.profile.Username = name
	}
	respondOK(w, "profile", fbo.Profile{ID: b.profile.ID, Username: b.profile.Username, Email: b.profile.Email})
}

func (b *Backend) listSources(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	respondOK(w, "items", append([]fbo.Source{}, b.sources...))
}

func (b *Backend) createSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s := fbo.Source{ID: b.id(), Name: strings.TrimSpace(req.Name)}
	b.sources = append(b.sources, s)
	respondOK(w, "item", s)
}

func (b *Backend) deleteSource(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.sources {
		if s.ID == id {
			b.sources = append(b.sources[:i], b.sources[i+1:]...)
			respondOK(w, "", nil)
			return
		}
	}
	respondError(w, http.StatusNotFound, "source not found")
}

func (b *Backend) listWarehouses(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	respondOK(w, "items", append([]fbo.Warehouse{}, b.warehouses...))
}

func (b *Backend) createWarehouse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	wh := fbo.Warehouse{ID: b.id(), Name: strings.TrimSpace(req.Name)}
	b.warehouses = append(b.warehouses, wh)
	respondOK(w, "item", wh)
}

func (b *Backend) deleteWarehouse(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, wh := range b.warehouses {
		if wh.ID == id {
			b.warehouses = append(b.warehouses[:i], b.warehouses[i+1:]...)
			respondOK(w, "", nil)
			return
		}
	}
	respondError(w, http.StatusNotFound, "warehouse not found")
}

func (b *Backend) shipmentView(s shipment) fbo.Shipment {
	out := s.Shipment
	out.WarehousesCount = 0
	for _, sw := range b.shipmentWarehouses {
		if sw.ShipmentID == s.ID {
			out.WarehousesCount++
		}
	}
	return out
}

func (b *Backend) listShipments(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := make([]fbo.Shipment, 0, len(b.shipments))
	for _, s := range b.shipments {
		items = append(items, b.shipmentView(s))
	}
	respondOK(w, "items", items)
}

func (b *Backend) createShipment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceID int64 `json:"source_id"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var src *fbo.Source
	for i := range b.sources {
		if b.sources[i].ID == req.SourceID {
			src = &b.sources[i]
		}
	}
	if src == nil {
		respondError(w, http.StatusBadRequest, "source not found")
		return
	}
	id := b.id()
	s := shipment{
		Shipment: fbo.Shipment{
			ID:         id,
			PublicID:   fmt.Sprintf("SHP-%06d", id),
			SourceName: src.Name,
			Status:     "draft",
		},
		SourceID: src.ID,
	}
	b.shipments = append(b.shipments, s)
	respondOK(w, "item", b.shipmentView(s))
}

func (b *Backend) deleteShipment(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.shipments {
		if s.ID == id {
			b.shipments = append(b.shipments[:i], b.shipments[i+1:]...)
			var attached []int64
			for _, sw := range b.shipmentWarehouses {
				if sw.ShipmentID == id {
					attached = append(attached, sw.ID)
				}
			}
			for _, swID := range attached {
				b.dropShipmentWarehouse(swID)
			}
			respondOK(w, "", nil)
			return
		}
	}
	respondError(w, http.StatusNotFound, "shipment not found")
}

func (b *Backend) listShipmentWarehouses(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	items := []fbo.ShipmentWarehouse{}
	for _, sw := range b.shipmentWarehouses {
		if sw.ShipmentID == id {
			items = append(items, sw.ShipmentWarehouse)
		}
	}
	respondOK(w, "items", items)
}

func (b *Backend) attachWarehouse(w http.ResponseWriter, r *http.Request) {
	shipmentID := pathID(r)
	var req struct {
		WarehouseID int64  `json:"warehouse_id"`
		WBCode      string `json:"wb_code"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var wh *fbo.Warehouse
	for i := range b.warehouses {
		if b.warehouses[i].ID == req.WarehouseID {
			wh = &b.warehouses[i]
		}
	}
	if wh == nil {
		respondError(w, http.StatusBadRequest, "warehouse not found")
		return
	}
	for _, sw := range b.shipmentWarehouses {
		if sw.ShipmentID == shipmentID && sw.WarehouseID == wh.ID {
			respondError(w, http.StatusConflict, "warehouse already attached")
			return
		}
	}
	sw := shipmentWarehouse{
		ShipmentWarehouse: fbo.ShipmentWarehouse{
			ID:            b.id(),
			WarehouseID:   wh.ID,
			WarehouseName: wh.Name,
			WBCode:        req.WBCode,
		},
		ShipmentID: shipmentID,
	}
	b.shipmentWarehouses = append(b.shipmentWarehouses, sw)
	respondOK(w, "item", sw.ShipmentWarehouse)
}

func (b *Backend) deleteShipmentWarehouse(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.dropShipmentWarehouse(pathID(r)) {
		respondError(w, http.StatusNotFound, "shipment warehouse not found")
		return
	}
	respondOK(w, "", nil)
}

func (b *Backend) dropShipmentWarehouse(id int64) bool {
	for i, sw := range b.shipmentWarehouses {
		if sw.ID != id {
			continue
		}
		b.shipmentWarehouses = append(b.shipmentWarehouses[:i], b.shipmentWarehouses[i+1:]...)
		kept := b.boxes[:0]
		for _, bx := range b.boxes {
			if bx.ShipmentWarehouseID == id {
				b.dropScans(bx.ID)
				continue
			}
			kept = append(kept, bx)
		}
		b.boxes = kept
		return true
	}
	return false
}

func (b *Backend) dropScans(boxID int64) {
	kept := b.scans[:0]
	for _, s := range b.scans {
		if s.BoxID != boxID {
			kept = append(kept, s)
		}
	}
	b.scans = kept
}

func (b *Backend) listBoxes(w http.ResponseWriter, r *http.Request) {
	swID := queryID(r, "shipmentWarehouseId")
	b.mu.Lock()
	defer b.mu.Unlock()
	items := []fbo.Box{}
	for _, bx := range b.boxes {
		if bx.ShipmentWarehouseID == swID {
			items = append(items, bx.Box)
		}
	}
	respondOK(w, "items", items)
}

func (b *Backend) createBox(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShipmentWarehouseID int64 `json:"shipment_warehouse_id"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	found := false
	for _, sw := range b.shipmentWarehouses {
		if sw.ID == req.ShipmentWarehouseID {
			found = true
		}
	}
	if !found {
		respondError(w, http.StatusBadRequest, "shipment warehouse not found")
		return
	}
	boxNo := 1
	for _, bx := range b.boxes {
		if bx.ShipmentWarehouseID == req.ShipmentWarehouseID && bx.BoxNo >= boxNo {
			boxNo = bx.BoxNo + 1
		}
	}
	bx := box{
		Box:                 fbo.Box{ID: b.id(), BoxNo: boxNo, CreatedAt: now()},
		ShipmentWarehouseID: req.ShipmentWarehouseID,
	}
	b.boxes = append(b.boxes, bx)
	respondOK(w, "item", bx.Box)
}

func (b *Backend) deleteBox(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, bx := range b.boxes {
		if bx.ID == id {
			b.boxes = append(b.boxes[:i], b.boxes[i+1:]...)
			b.dropScans(id)
			respondOK(w, "", nil)
			return
		}
	}
	respondError(w, http.StatusNotFound, "box not found")
}

func (b *Backend) shipmentOfBox(boxID int64) (box, int64, bool) {
	for _, bx := range b.boxes {
		if bx.ID != boxID {
			continue
		}
		for _, sw := range b.shipmentWarehouses {
			if sw.ID == bx.ShipmentWarehouseID {
				return bx, sw.ShipmentID, true
			}
		}
	}
	return box{}, 0, false
}

func (b *Backend) recentScans(w http.ResponseWriter, r *http.Request) {
	shipmentID := queryID(r, "shipmentId")
	b.mu.Lock()
	defer b.mu.Unlock()
	matched := []scan{}
	for _, s := range b.scans {
		if s.ShipmentID == shipmentID {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })
	items := make([]fbo.ScanEvent, 0, len(matched))
	for _, s := range matched {
		items = append(items, s.ScanEvent)
	}
	respondOK(w, "items", items)
}

func (b *Backend) createScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BoxID   int64  `json:"box_id"`
		Barcode string `json:"barcode"`
	}
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Barcode) == "" {
		respondError(w, http.StatusBadRequest, "barcode is required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	bx, shipmentID, ok := b.shipmentOfBox(req.BoxID)
	if !ok {
		respondError(w, http.StatusBadRequest, "box not found")
		return
	}
	id := b.id()
	s := scan{
		ScanEvent: fbo.ScanEvent{
			ID:              id,
			Barcode:         strings.TrimSpace(req.Barcode),
			BoxID:           bx.ID,
			BoxNo:           bx.BoxNo,
			CreatedAt:       now(),
			CreatedByUserID: b.profile.ID,
		},
		ShipmentID: shipmentID,
		seq:        id,
	}
	b.scans = append(b.scans, s)
	respondOK(w, "item", s.ScanEvent)
}

func (b *Backend) deleteScan(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.scans {
		if s.ID == id {
			b.scans = append(b.scans[:i], b.scans[i+1:]...)
			respondOK(w, "", nil)
			return
		}
	}
	respondError(w, http.StatusNotFound, "scan not found")
}

func (b *Backend) undoLastScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BoxID int64 `json:"box_id"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	last := -1
	for i, s := range b.scans {
		if s.BoxID == req.BoxID && (last < 0 || s.seq > b.scans[last].seq) {
			last = i
		}
	}
	if last < 0 {
		respondError(w, http.StatusNotFound, "nothing to undo")
		return
	}
	removed := b.scans[last]
	b.scans = append(b.scans[:last], b.scans[last+1:]...)
	respondOK(w, "item", removed.ScanEvent)
}
