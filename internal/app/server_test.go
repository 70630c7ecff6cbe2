package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func decodeAPI(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func newSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/session", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("session: status %d, body %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Session string `json:"session"`
	}
	if err := json.Unmarshal(decodeAPI(t, rec).Data, &data); err != nil {
		t.Fatalf("session data: %v", err)
	}
	return data.Session
}

func newNonce(t *testing.T, h http.Handler, session, action string) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nonce?session="+session+"&action="+action, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("nonce: status %d, body %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(decodeAPI(t, rec).Data, &data); err != nil {
		t.Fatalf("nonce data: %v", err)
	}
	return data.Nonce
}

func uploadRequest(t *testing.T, fields map[string]string, fileName string, contents []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(contents); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newTestServer(t *testing.T) (*App, http.Handler) {
	t.Helper()
	a := newTestApp(t)
	a.cfg.HTTP.NonceSecret = "server-test-secret"
	h, err := a.Server()
	if err != nil {
		t.Fatalf("Server: %v", err)
	}
	return a, h
}

func TestServerRequiresNonceSecret(t *testing.T) {
	a := newTestApp(t)
	if _, err := a.Server(); err == nil {
		t.Fatal("Server without nonce secret should fail")
	}
}

func TestServerUploadDownloadFlow(t *testing.T) {
	_, h := newTestServer(t)

	session := newSession(t, h)
	nonce := newNonce(t, h, session, "upload")

	req := uploadRequest(t, map[string]string{
		"session": session,
		"nonce":   nonce,
		"name":    "hello.txt",
	}, "hello.txt", []byte("hello over http"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/hello.txt", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download: status %d", rec.Code)
	}
	got, _ := io.ReadAll(rec.Body)
	if string(got) != "hello over http" {
		t.Errorf("downloaded %q", got)
	}
}

func TestServerRejectsNonceReplay(t *testing.T) {
	_, h := newTestServer(t)

	session := newSession(t, h)
	nonce := newNonce(t, h, session, "upload")

	fields := map[string]string{"session": session, "nonce": nonce, "name": "a.txt"}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, fields, "a.txt", []byte("first")))
	if rec.Code != http.StatusOK {
		t.Fatalf("first upload: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, fields, "a.txt", []byte("second")))
	if rec.Code != http.StatusConflict {
		t.Errorf("replayed upload: status %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestServerRejectsWrongActionNonce(t *testing.T) {
	_, h := newTestServer(t)

	session := newSession(t, h)
	nonce := newNonce(t, h, session, "delete")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, map[string]string{
		"session": session,
		"nonce":   nonce,
		"name":    "b.txt",
	}, "b.txt", []byte("nope")))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestServerSnapshotsEndpoint(t *testing.T) {
	a, h := newTestServer(t)
	seedApp(t, a)

	if err := a.Backup(context.Background(), "via-http", false); err != nil {
		t.Fatalf("Backup: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshots", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var names []string
	if err := json.Unmarshal(decodeAPI(t, rec).Data, &names); err != nil {
		t.Fatalf("data: %v", err)
	}
	if len(names) != 1 || names[0] != "via-http" {
		t.Errorf("snapshots = %v", names)
	}
}

func TestServerSecurityHeadersApplied(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshots", nil))
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}
