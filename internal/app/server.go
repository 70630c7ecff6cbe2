package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"toolbelt-go/internal/httpkit"
)

// Server assembles the HTTP surface: template pages and static assets when
// configured, plus a small JSON API for sessions, nonces, uploads, and
// snapshot listings. Nonce-protected endpoints reject replayed or
// cross-origin requests.
func (a *App) Server() (http.Handler, error) {
	store := httpkit.NewMemorySessionStore()
	secret := a.cfg.HTTP.NonceSecret
	if secret == "" {
		return nil, fmt.Errorf("http.nonce_secret is not configured")
	}
	nonces := httpkit.NewNonceService(secret, store)

	router := httpkit.NewAPIRouter()
	if a.cfg.HTTP.TemplateDir != "" {
		var err error
		router, err = httpkit.NewRouter(a.cfg.HTTP.TemplateDir, a.cfg.HTTP.StaticDir)
		if err != nil {
			return nil, fmt.Errorf("building page router: %w", err)
		}
	}

	router.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httpkit.WriteError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		id, err := store.NewSession()
		if err != nil {
			httpkit.WriteError(w, http.StatusInternalServerError, "creating session")
			return
		}
		a.logger.Info("session created", "client", httpkit.ClientIP(r))
		httpkit.WriteSuccess(w, map[string]string{"session": id})
	})

	router.HandleFunc("/api/nonce", func(w http.ResponseWriter, r *http.Request) {
		session := r.URL.Query().Get("session")
		action := r.URL.Query().Get("action")
		token, err := nonces.Create(session, action)
		if err != nil {
			httpkit.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		httpkit.NoCache(w)
		httpkit.WriteSuccess(w, map[string]string{"nonce": token})
	})

	router.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		if a.Files == nil {
			httpkit.WriteError(w, http.StatusNotImplemented, "file storage is not configured")
			return
		}
		if r.Method != http.MethodPost {
			httpkit.WriteError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		if len(a.cfg.HTTP.TrustedOrigins) > 0 && !httpkit.IsTrustedOrigin(r, a.cfg.HTTP.TrustedOrigins) {
			httpkit.WriteError(w, http.StatusForbidden, "untrusted origin")
			return
		}
		if err := nonces.Verify(r.FormValue("session"), "upload", r.FormValue("nonce")); err != nil {
			status := http.StatusForbidden
			if errors.Is(err, httpkit.ErrNonceUsed) {
				status = http.StatusConflict
			}
			httpkit.WriteError(w, status, err.Error())
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httpkit.WriteError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		path, err := a.Files.Upload(file, header, r.FormValue("name"))
		if err != nil {
			httpkit.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Info("file uploaded", "path", path, "client", httpkit.ClientIP(r))
		httpkit.WriteSuccess(w, map[string]string{"path": path})
	})

	router.HandleFunc("/api/files/", func(w http.ResponseWriter, r *http.Request) {
		if a.Files == nil {
			httpkit.WriteError(w, http.StatusNotImplemented, "file storage is not configured")
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/api/files/")
		if err := a.Files.Download(w, name, ""); err != nil {
			httpkit.WriteError(w, http.StatusNotFound, "file not found")
		}
	})

	router.HandleFunc("/api/snapshots", func(w http.ResponseWriter, r *http.Request) {
		names, err := a.Snapshots.ListSnapshots(r.Context())
		if err != nil {
			httpkit.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpkit.NoCache(w)
		httpkit.WriteSuccess(w, names)
	})

	return router, nil
}
