package server

import (
	"bytes"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/export"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/profile"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/view"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var p fbo.Profile
	sess.Run(false, func() {
		loaded, err := sess.Profile.Load(r.Context())
		if err != nil {
			sess.Prompter().Alert(err.Error())
			return
		}
		p = *loaded
	})

	page := view.ProfilePage{
		Alerts:  sess.DrainAlerts(),
		Profile: p,
		Saved:   r.URL.Query().Get("saved") == "1",
	}
	if err := s.renderer.Profile(w, page); err != nil {
		s.logger.Error("render profile", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	id, _ := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	form := profile.Form{
		ID:       id,
		Username: r.PostFormValue("username"),
		Phone:    r.PostFormValue("phone"),
		Language: r.PostFormValue("language"),
	}

	saved := false
	alerts := sess.Run(false, func() {
		if _, err := sess.Profile.Save(r.Context(), form); err != nil {
			sess.Prompter().Alert(err.Error())
			return
		}
		saved = true
	})
	noteAlerts(r.Context(), alerts)

	target := "/profile"
	if saved {
		target += "?saved=1"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleExportScans serves the recent scans of a listed shipment as XLSX.
func (s *Server) handleExportScans(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	id := pathID(r)

	var (
		shipment fbo.Shipment
		found    bool
	)
	sess.Run(false, func() {
		s.ensureInit(r.Context(), sess)
		for _, sh := range sess.Console.State().Shipments {
			if sh.ID == id {
				shipment, found = sh, true
				break
			}
		}
	})
	if !found {
		http.NotFound(w, r)
		return
	}

	scans, err := sess.API.RecentScans(r.Context(), id)
	if err != nil {
		status := http.StatusBadGateway
		if fbo.IsAuth(err) {
			status = http.StatusUnauthorized
		}
		http.Error(w, err.Error(), status)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteScansXLSX(&buf, shipment, scans); err != nil {
		s.logger.Error("export scans", zap.Int64("shipment_id", id), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(shipment)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}
