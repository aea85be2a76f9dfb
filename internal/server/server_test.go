package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/export"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo/fbotest"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore"
	mock_localstore "gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore/mocks"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/session"
	mock_server "gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/server/mocks"
)

const backendToken = "console-token"

type auditLog struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (a *auditLog) add(_ context.Context, e audit.Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *auditLog) last(t *testing.T) audit.Entry {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.entries)
	return a.entries[len(a.entries)-1]
}

func (a *auditLog) len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

type harness struct {
	backend  *fbotest.Backend
	console  *httptest.Server
	client   *http.Client
	sessions *session.Registry
	audit    *auditLog
}

// newHarness starts the console against a fake backend. When token is
// non-empty it is installed as the authToken cookie.
func newHarness(t *testing.T, token string) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	backend := fbotest.New(t, backendToken)
	api := fbo.NewClient(backend.URL(), nil, nil)
	registry := session.NewRegistry(NewSessionFactory(api, localstore.NewMemoryStore(), nil), nil)

	log := &auditLog{}
	auditLogger := mock_server.NewMockAuditLogger(ctrl)
	auditLogger.EXPECT().Log(gomock.Any(), gomock.Any()).Do(log.add).AnyTimes()

	srv := New(Config{Addr: ":0"}, registry, auditLogger, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	if token != "" {
		u, err := url.Parse(ts.URL)
		require.NoError(t, err)
		jar.SetCookies(u, []*http.Cookie{{Name: auth.CookieName, Value: token, Path: "/"}})
	}

	return &harness{
		backend:  backend,
		console:  ts,
		client:   &http.Client{Jar: jar},
		sessions: registry,
		audit:    log,
	}
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.Get(h.console.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (h *harness) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.PostForm(h.console.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestConsole_CreateSourceRoundTrip(t *testing.T) {
	h := newHarness(t, backendToken)

	resp, body := h.get(t, "/console")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "not selected")
	assert.Equal(t, 1, h.sessions.Len())

	resp, body = h.post(t, "/console/sources", url.Values{"name": {"  Alibaba  "}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/console", resp.Request.URL.Path)
	assert.Contains(t, body, "Alibaba")
	assert.Equal(t, 1, h.sessions.Len())

	entry := h.audit.last(t)
	assert.Equal(t, "source_create", entry.Action)
	assert.Equal(t, http.MethodPost, entry.Method)
	assert.Equal(t, "/console/sources", entry.Path)
	assert.Equal(t, http.StatusSeeOther, entry.StatusCode)
	assert.Empty(t, entry.Alert)
	assert.NotEmpty(t, entry.SessionID)
	assert.NotEmpty(t, entry.ID)
}

func TestConsole_ShipmentWithoutSourceAlerts(t *testing.T) {
	h := newHarness(t, backendToken)
	h.get(t, "/console")
	h.backend.ResetRequests()

	_, body := h.post(t, "/console/shipments", url.Values{"source_id": {""}})

	assert.Contains(t, body, "select a source first")
	assert.NotContains(t, h.backend.Requests(), "POST /api/fbo/shipments")
	assert.Equal(t, "select a source first", h.audit.last(t).Alert)

	_, body = h.get(t, "/console")
	assert.NotContains(t, body, "select a source first", "alerts are shown once")
}

func TestConsole_MissingTokenAlerts(t *testing.T) {
	h := newHarness(t, "")

	_, body := h.get(t, "/console")

	assert.Contains(t, body, fbo.MsgAuthRequired)
	assert.Empty(t, h.backend.Requests())
}

func TestConsole_DeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t, backendToken)
	src := h.backend.AddSource("Alibaba")
	h.get(t, "/console")

	path := "/console/sources/" + itoa(src.ID) + "/delete"

	_, body := h.post(t, path, nil)
	assert.Contains(t, body, "Alibaba")
	assert.Empty(t, h.audit.last(t).Alert)

	_, body = h.post(t, path, url.Values{"confirm": {"yes"}})
	assert.NotContains(t, body, "Alibaba")
	assert.Equal(t, "source_delete", h.audit.last(t).Action)
}

func TestConsole_ShipmentFlowAndExport(t *testing.T) {
	h := newHarness(t, backendToken)
	src := h.backend.AddSource("Alibaba")
	wh := h.backend.AddWarehouse("Koledino")
	h.get(t, "/console")

	h.post(t, "/console/shipments", url.Values{"source_id": {itoa(src.ID)}})
	h.post(t, "/console/shipment-warehouses", url.Values{"warehouse_id": {itoa(wh.ID)}, "wb_code": {"WB-1"}})
	h.post(t, "/console/boxes", nil)
	h.post(t, "/console/scans", url.Values{"barcode": {"4600000000001"}})
	_, body := h.post(t, "/console/scans", url.Values{"barcode": {"<script>x</script>"}})

	assert.Contains(t, body, "Koledino / WB-1")
	assert.Contains(t, body, "Box #1")
	assert.Contains(t, body, "4600000000001")
	assert.Contains(t, body, "&lt;script&gt;x&lt;/script&gt;")
	assert.NotContains(t, body, "<script>x</script>")

	sess, ok := h.sessions.Get(h.audit.last(t).SessionID)
	require.True(t, ok)
	var shipment *fbo.Shipment
	sess.Run(false, func() { shipment = sess.Console.State().ActiveShipment() })
	require.NotNil(t, shipment)
	assert.Contains(t, body, shipment.PublicID)

	resp, raw := h.get(t, "/console/shipments/"+itoa(shipment.ID)+"/scans.xlsx")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), export.FileName(*shipment))

	f, err := excelize.OpenReader(bytes.NewReader([]byte(raw)))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Scans")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "<script>x</script>", rows[1][1])

	resp, _ = h.get(t, "/console/shipments/999/scans.xlsx")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConsole_UndoLastScan(t *testing.T) {
	h := newHarness(t, backendToken)
	src := h.backend.AddSource("Alibaba")
	wh := h.backend.AddWarehouse("Koledino")
	h.get(t, "/console")
	h.post(t, "/console/shipments", url.Values{"source_id": {itoa(src.ID)}})
	h.post(t, "/console/shipment-warehouses", url.Values{"warehouse_id": {itoa(wh.ID)}})
	h.post(t, "/console/boxes", nil)
	h.post(t, "/console/scans", url.Values{"barcode": {"first-code"}})
	h.post(t, "/console/scans", url.Values{"barcode": {"second-code"}})

	_, body := h.post(t, "/console/scans/undo", nil)
	assert.Contains(t, body, "first-code")
	assert.NotContains(t, body, "second-code")

	h.post(t, "/console/scans/undo", nil)
	_, body = h.post(t, "/console/scans/undo", nil)
	assert.Contains(t, body, "nothing to undo")
	assert.Equal(t, "scan_undo", h.audit.last(t).Action)
}

func TestProfile_SaveAndLoad(t *testing.T) {
	h := newHarness(t, backendToken)

	_, body := h.get(t, "/profile")
	assert.Contains(t, body, `value="operator@example.com"`)

	resp, body := h.post(t, "/profile", url.Values{
		"id":       {"7"},
		"username": {"night-shift"},
		"phone":    {"+7 900 000-00-00"},
		"language": {"ru"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Request.URL.Query().Get("saved"))
	assert.Contains(t, body, `value="night-shift"`)
	assert.Contains(t, body, `value="&#43;7 900 000-00-00"`)
	assert.Contains(t, body, `value="ru"`)
	assert.Equal(t, "profile_save", h.audit.last(t).Action)
}

func TestProfile_FailureAlerts(t *testing.T) {
	h := newHarness(t, "wrong-token")

	_, body := h.get(t, "/profile")
	assert.Contains(t, body, fbo.MsgAuthRequired)

	resp, _ := h.post(t, "/profile", url.Values{"username": {"x"}})
	assert.Empty(t, resp.Request.URL.Query().Get("saved"))
	assert.Equal(t, fbo.MsgAuthRequired, h.audit.last(t).Alert)
}

func TestServiceRoutes(t *testing.T) {
	h := newHarness(t, backendToken)

	resp, body := h.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, body = h.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(body, "fbo_console_active_sessions"))

	assert.Zero(t, h.sessions.Len(), "service routes do not open sessions")
	assert.Zero(t, h.audit.len())

	resp, _ = h.get(t, "/")
	assert.Equal(t, "/console", resp.Request.URL.Path)
}

func TestAuditMiddleware_SkipsReads(t *testing.T) {
	h := newHarness(t, backendToken)

	h.get(t, "/console")
	h.get(t, "/profile")

	assert.Zero(t, h.audit.len())
}

func TestSessionCleanup(t *testing.T) {
	ctx := context.Background()

	t.Run("drops evicted session storage", func(t *testing.T) {
		store := localstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, "s1", "authToken", "abc"))
		require.NoError(t, store.Set(ctx, "s1", "profileLocal:7", `{"phone":"123"}`))
		require.NoError(t, store.Set(ctx, "s2", "authToken", "def"))

		NewSessionCleanup(store, nil)("s1")

		_, err := store.Get(ctx, "s1", "authToken")
		assert.ErrorIs(t, err, localstore.ErrNotFound)
		_, err = store.Get(ctx, "s1", "profileLocal:7")
		assert.ErrorIs(t, err, localstore.ErrNotFound)
		got, err := store.Get(ctx, "s2", "authToken")
		require.NoError(t, err)
		assert.Equal(t, "def", got)
	})

	t.Run("registry delete triggers cleanup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_localstore.NewMockStore(ctrl)

		registry := session.NewRegistry(session.NewSession, nil)
		registry.OnEvict(NewSessionCleanup(store, nil))
		s := registry.Create()

		store.EXPECT().DeleteNamespace(gomock.Any(), s.ID).Return(errors.New("disk full"))

		registry.Delete(s.ID)
		assert.Zero(t, registry.Len())
	})
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
