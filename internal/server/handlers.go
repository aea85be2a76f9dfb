package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/console"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/session"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/view"
)

// consoleAction runs one console operation for a submitted form. Failures
// are already alerted by the console; the returned error is for logging.
type consoleAction func(ctx context.Context, c *console.Console, r *http.Request) error

func actRefresh(ctx context.Context, c *console.Console, _ *http.Request) error {
	return c.Refresh(ctx)
}

func actCreateSource(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.CreateSource(ctx, r.PostFormValue("name"))
}

func actSelectSource(_ context.Context, c *console.Console, r *http.Request) error {
	return c.SelectSource(pathID(r))
}

func actDeleteSource(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.DeleteSource(ctx, pathID(r))
}

func actCreateWarehouse(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.CreateWarehouse(ctx, r.PostFormValue("name"))
}

func actSelectWarehouse(_ context.Context, c *console.Console, r *http.Request) error {
	return c.SelectWarehouse(pathID(r))
}

func actDeleteWarehouse(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.DeleteWarehouse(ctx, pathID(r))
}

func actCreateShipment(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.CreateShipment(ctx, formID(r, "source_id"))
}

func actSelectShipment(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.SelectShipment(ctx, pathID(r))
}

func actDeleteShipment(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.DeleteShipment(ctx, pathID(r))
}

func actAttachWarehouse(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.AttachWarehouse(ctx, formID(r, "warehouse_id"), r.PostFormValue("wb_code"))
}

func actSelectShipmentWarehouse(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.SelectShipmentWarehouse(ctx, pathID(r))
}

func actDeleteShipmentWarehouse(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.DeleteShipmentWarehouse(ctx, pathID(r))
}

func actCreateBox(ctx context.Context, c *console.Console, _ *http.Request) error {
	return c.CreateBox(ctx)
}

func actSelectBox(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.SelectBox(ctx, pathID(r))
}

func actDeleteBox(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.DeleteBox(ctx, pathID(r))
}

func actScan(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.Scan(ctx, r.PostFormValue("barcode"))
}

func actUndoScan(ctx context.Context, c *console.Console, _ *http.Request) error {
	return c.UndoLastScan(ctx)
}

func actDeleteScan(ctx context.Context, c *console.Console, r *http.Request) error {
	return c.DeleteScan(ctx, pathID(r))
}

// action wraps fn in the post/redirect/get cycle: run under the session
// lock, then send the browser back to the console page where queued
// alerts are shown.
func (s *Server) action(fn consoleAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r.Context())
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		confirmed := r.PostFormValue("confirm") == "yes"

		ctx := r.Context()
		alerts := sess.Run(confirmed, func() {
			if !s.ensureInit(ctx, sess) {
				return
			}
			if err := fn(ctx, sess.Console, r); err != nil && !errors.Is(err, console.ErrCancelled) {
				s.logger.Debug("console action failed", zap.String("path", r.URL.Path), zap.Error(err))
			}
		})
		noteAlerts(ctx, alerts)

		http.Redirect(w, r, "/console", http.StatusSeeOther)
	}
}

// ensureInit loads the console once per session. Must be called inside
// Session.Run. A failed load is retried on the next request.
func (s *Server) ensureInit(ctx context.Context, sess *session.Session) bool {
	if sess.Initialized {
		return true
	}
	if err := sess.Console.Init(ctx); err != nil {
		return false
	}
	sess.Initialized = true
	return true
}

func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var st console.State
	sess.Run(false, func() {
		s.ensureInit(r.Context(), sess)
		st = sess.Console.State()
	})

	page := view.NewConsolePage(st, sess.DrainAlerts())
	if err := s.renderer.Console(w, page); err != nil {
		s.logger.Error("render console", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// formID reads an optional numeric id; anything unparsable counts as no
// selection.
func formID(r *http.Request, field string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue(field)), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
