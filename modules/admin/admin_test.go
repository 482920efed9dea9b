package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/config"
	"github.com/GoCodeAlone/bootkit/logging"
	"github.com/GoCodeAlone/bootkit/terminal"
	"github.com/GoCodeAlone/bootkit/thread"
)

func provider(t *testing.T, data string) config.Provider {
	t.Helper()
	var cfg struct{}
	doc, err := config.Load([]byte(data), config.FormatTOML, &cfg)
	require.NoError(t, err)
	return config.NewStdProvider(&cfg, doc)
}

func newRegistry(t *testing.T, cfg config.Provider) (*component.Registry, *Admin) {
	t.Helper()
	a := New()
	r := component.NewRegistry(nil)
	require.NoError(t, r.Register(
		a,
		logging.New(logging.Options{}, io.Discard),
		terminal.New(terminal.ColorNever, &bytes.Buffer{}, &bytes.Buffer{}),
	))
	require.NoError(t, r.AfterConfig(cfg))
	return r, a
}

func TestAdminRegistersAfterLogging(t *testing.T) {
	r, _ := newRegistry(t, config.NewStdProvider(nil, nil))
	assert.Equal(t, []component.ID{terminal.ComponentID, logging.ComponentID, ComponentID}, r.IDs())
}

func TestAdminConfig(t *testing.T) {
	_, a := newRegistry(t, config.NewStdProvider(nil, nil))
	assert.Equal(t, "127.0.0.1:9090", a.Config().Address)
	assert.Equal(t, 5*time.Second, a.Config().ShutdownTimeout)

	_, a = newRegistry(t, provider(t, "[admin]\naddress = \"127.0.0.1:0\"\nshutdown_timeout = \"1s\"\n"))
	assert.Equal(t, "127.0.0.1:0", a.Config().Address)
	assert.Equal(t, time.Second, a.Config().ShutdownTimeout)
	assert.Equal(t, 5*time.Second, a.Config().ReadHeaderTimeout, "defaults fill the rest of the section")

	a = New()
	err := a.AfterConfig(provider(t, "[admin]\nshutdown_timeout = \"-1s\"\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAdminHandler(t *testing.T) {
	r, a := newRegistry(t, config.NewStdProvider(nil, nil))
	h := a.Handler(r)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "healthz", path: "/healthz", wantStatus: http.StatusOK},
		{name: "components", path: "/components", wantStatus: http.StatusOK},
		{name: "one component", path: "/components/" + logging.ComponentID.String(), wantStatus: http.StatusOK},
		{name: "unknown component", path: "/components/nope", wantStatus: http.StatusNotFound},
		{name: "unknown route", path: "/metrics", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/components", nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var descriptors []component.Descriptor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &descriptors))
	require.Len(t, descriptors, 3)
	assert.Equal(t, ComponentID, descriptors[2].ID)
	assert.Equal(t, []component.ID{logging.ComponentID}, descriptors[2].Dependencies)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/components/"+logging.ComponentID.String(), nil))
	var one component.Descriptor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, logging.ComponentID, one.ID)
	assert.Equal(t, component.FrameworkVersion, one.Version)
}

func TestAdminServeUntilCancelled(t *testing.T) {
	r, a := newRegistry(t, provider(t, "[admin]\naddress = \"127.0.0.1:0\"\n"))
	threads := thread.NewManager(context.Background(), nil)
	require.NoError(t, threads.Spawn(ThreadName, func(ctx context.Context) error {
		return a.Serve(ctx, r)
	}))

	select {
	case <-a.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("admin server did not start")
	}
	require.NotNil(t, a.Addr())

	resp, err := http.Get("http://" + a.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	assert.ErrorIs(t, a.Serve(context.Background(), r), ErrAlreadyServing)

	require.NoError(t, threads.Join())
	require.NoError(t, a.BeforeShutdown(component.ShutdownGraceful))
}

func TestAdminShutdownStopsServe(t *testing.T) {
	r, a := newRegistry(t, provider(t, "[admin]\naddress = \"127.0.0.1:0\"\n"))
	done := make(chan error, 1)
	go func() { done <- a.Serve(context.Background(), r) }()
	<-a.Ready()

	require.NoError(t, a.BeforeShutdown(component.ShutdownForced))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after shutdown")
	}
}

func TestAdminShutdownBeforeServe(t *testing.T) {
	assert.NoError(t, New().BeforeShutdown(component.ShutdownGraceful))
}
