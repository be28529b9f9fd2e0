package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"talentdesk/api/internal/ai"
	"talentdesk/api/internal/export"
	"talentdesk/api/internal/keystore"
	"talentdesk/api/internal/search"
	"talentdesk/api/internal/session"
)

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type testApp struct {
	service *Service
	handler http.Handler
	redis   *miniredis.Miniredis
	store   *keystore.Store
	gen     *fakeGenerator
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	kv, err := keystore.NewRedisKV("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisKV() error = %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	ks := keystore.New(kv, "talentdesk_v1_")
	ctrl := session.New(context.Background(), ks, session.DefaultSaveDebounce)

	gen := &fakeGenerator{reply: "ok"}
	aiSvc := ai.NewService(gen, ks)
	searchSvc := search.NewService(nil, search.NewMemory())

	service := NewService(ctrl, ks, aiSvc, searchSvc, export.NewService(), nil, nil)
	server := NewHTTPServer(service, "*")

	return &testApp{
		service: service,
		handler: server.Handler(),
		redis:   mr,
		store:   ks,
		gen:     gen,
	}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T, email, password, role string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
		"role":     role,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
