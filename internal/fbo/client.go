package fbo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/metrics"
)

// TokenSource yields the bearer token for the current caller. An empty
// token with a nil error means the caller is not signed in.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// WithTokenSource returns a copy of the client bound to ts.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// Do performs one call and always returns an envelope; failures never
// surface as Go errors here.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}) Result {
	res, _ := c.roundTrip(ctx, method, path, body)
	return res
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body interface{}) (Result, int) {
	route := routeLabel(path)

	token, err := c.token(ctx)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, route, "token_error").Inc()
		c.logger.Warn("token lookup failed", zap.String("path", path), zap.Error(err))
		return Result{Error: err.Error()}, 0
	}
	if token == "" {
		metrics.APIRequestsTotal.WithLabelValues(method, route, "unauthorized").Inc()
		return Result{Error: MsgAuthRequired}, http.StatusUnauthorized
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Result{Error: err.Error()}, 0
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Result{Error: err.Error()}, 0
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.APIRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, route, "transport_error").Inc()
		c.logger.Warn("fbo call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return Result{Error: err.Error()}, 0
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, route, "transport_error").Inc()
		return Result{Error: err.Error()}, resp.StatusCode
	}

	res := decodeResult(resp.StatusCode, resp.Header.Get("Content-Type"), raw)

	outcome := "success"
	if !res.Success {
		outcome = "failure"
	}
	metrics.APIRequestsTotal.WithLabelValues(method, route, outcome).Inc()
	c.logger.Debug("fbo call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Bool("success", res.Success),
		zap.Duration("took", time.Since(start)),
	)

	return res, resp.StatusCode
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve token: %w", err)
	}
	return strings.TrimSpace(token), nil
}

func decodeResult(status int, contentType string, raw []byte) Result {
	if !strings.Contains(strings.ToLower(contentType), "json") {
		return Result{Error: statusMessage(status)}
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{Error: statusMessage(status)}
	}

	if status < 200 || status >= 300 {
		res.Success = false
	}
	if !res.Success && res.Error == "" {
		res.Error = statusMessage(status)
	}
	return res
}

func resultErr(res Result, status int) error {
	if res.Success {
		return nil
	}
	return &Error{Status: status, Message: res.Error}
}

// routeLabel collapses numeric path segments so metric cardinality stays bounded.
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

func decodeOne[T any](raw json.RawMessage) (*T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return &item, nil
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) list(ctx context.Context, path string) (Result, error) {
	res, status := c.roundTrip(ctx, http.MethodGet, path, nil)
	return res, resultErr(res, status)
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (Result, error) {
	res, status := c.roundTrip(ctx, method, path, body)
	return res, resultErr(res, status)
}

func (c *Client) ListSources(ctx context.Context) ([]Source, error) {
	res, err := c.list(ctx, "/api/fbo/sources")
	if err != nil {
		return nil, err
	}
	return decodeList[Source](res.Items)
}

func (c *Client) CreateSource(ctx context.Context, name string) (*Source, error) {
	res, err := c.send(ctx, http.MethodPost, "/api/fbo/sources", nameRequest{Name: name})
	if err != nil {
		return nil, err
	}
	return decodeOne[Source](res.Item)
}

func (c *Client) DeleteSource(ctx context.Context, id int64) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/fbo/sources", id), nil)
	return err
}

func (c *Client) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	res, err := c.list(ctx, "/api/fbo/warehouses")
	if err != nil {
		return nil, err
	}
	return decodeList[Warehouse](res.Items)
}

func (c *Client) CreateWarehouse(ctx context.Context, name string) (*Warehouse, error) {
	res, err := c.send(ctx, http.MethodPost, "/api/fbo/warehouses", nameRequest{Name: name})
	if err != nil {
		return nil, err
	}
	return decodeOne[Warehouse](res.Item)
}

func (c *Client) DeleteWarehouse(ctx context.Context, id int64) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/fbo/warehouses", id), nil)
	return err
}

func (c *Client) ListShipments(ctx context.Context) ([]Shipment, error) {
	res, err := c.list(ctx, "/api/fbo/shipments")
	if err != nil {
		return nil, err
	}
	return decodeList[Shipment](res.Items)
}

func (c *Client) CreateShipment(ctx context.Context, sourceID int64) (*Shipment, error) {
	res, err := c.send(ctx, http.MethodPost, "/api/fbo/shipments", createShipmentRequest{SourceID: sourceID})
	if err != nil {
		return nil, err
	}
	return decodeOne[Shipment](res.Item)
}

func (c *Client) DeleteShipment(ctx context.Context, id int64) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/fbo/shipments", id), nil)
	return err
}

func (c *Client) ListShipmentWarehouses(ctx context.Context, shipmentID int64) ([]ShipmentWarehouse, error) {
	res, err := c.list(ctx, idPath("/api/fbo/shipments", shipmentID)+"/warehouses")
	if err != nil {
		return nil, err
	}
	return decodeList[ShipmentWarehouse](res.Items)
}

func (c *Client) AttachWarehouse(ctx context.Context, shipmentID, warehouseID int64, wbCode string) (*ShipmentWarehouse, error) {
	body := attachWarehouseRequest{WarehouseID: warehouseID, WBCode: wbCode}
	res, err := c.send(ctx, http.MethodPost, idPath("/api/fbo/shipments", shipmentID)+"/warehouses", body)
	if err != nil {
		return nil, err
	}
	return decodeOne[ShipmentWarehouse](res.Item)
}

func (c *Client) DeleteShipmentWarehouse(ctx context.Context, id int64) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/fbo/shipment-warehouses", id), nil)
	return err
}

func (c *Client) ListBoxes(ctx context.Context, shipmentWarehouseID int64) ([]Box, error) {
	q := url.Values{}
	q.Set("shipmentWarehouseId", strconv.FormatInt(shipmentWarehouseID, 10))
	res, err := c.list(ctx, "/api/fbo/boxes?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return decodeList[Box](res.Items)
}

func (c *Client) CreateBox(ctx context.Context, shipmentWarehouseID int64) (*Box, error) {
	res, err := c.send(ctx, http.MethodPost, "/api/fbo/boxes", createBoxRequest{ShipmentWarehouseID: shipmentWarehouseID})
	if err != nil {
		return nil, err
	}
	return decodeOne[Box](res.Item)
}

func (c *Client) DeleteBox(ctx context.Context, id int64) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/fbo/boxes", id), nil)
	return err
}

func (c *Client) RecentScans(ctx context.Context, shipmentID int64) ([]ScanEvent, error) {
	q := url.Values{}
	q.Set("shipmentId", strconv.FormatInt(shipmentID, 10))
	res, err := c.list(ctx, "/api/fbo/scans/recent?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return decodeList[ScanEvent](res.Items)
}

func (c *Client) Scan(ctx context.Context, boxID int64, barcode string) (*ScanEvent, error) {
	res, err := c.send(ctx, http.MethodPost, "/api/fbo/scans", scanRequest{BoxID: boxID, Barcode: barcode})
	if err != nil {
		return nil, err
	}
	return decodeOne[ScanEvent](res.Item)
}

func (c *Client) DeleteScan(ctx context.Context, id int64) error {
	_, err := c.send(ctx, http.MethodDelete, idPath("/api/fbo/scans", id), nil)
	return err
}

func (c *Client) UndoLastScan(ctx context.Context, boxID int64) error {
	_, err := c.send(ctx, http.MethodPost, "/api/fbo/scans/undo-last", undoScanRequest{BoxID: boxID})
	return err
}

func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	res, err := c.list(ctx, "/api/profile")
	if err != nil {
		return nil, err
	}
	return decodeOne[Profile](res.Profile)
}

func (c *Client) SaveProfile(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	res, err := c.send(ctx, http.MethodPost, "/api/profile", update)
	if err != nil {
		return nil, err
	}
	return decodeOne[Profile](res.Profile)
}
