package emotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCatalogRefreshAndLookup(t *testing.T) {
	req := require.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"wave"},{"name":"smile"},{"name":""}]`))
	}))
	defer ts.Close()

	c := New(ts.URL, time.Minute, nil)
	req.NoError(c.Refresh(context.Background()))

	req.Equal(2, c.Size())
	req.True(c.Has("wave"))
	req.True(c.Has("smile"))
	req.False(c.Has("unknown"))
}

func TestCatalogKeepsStaleSetOnFailure(t *testing.T) {
	req := require.New(t)

	var fail atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"name":"wave"}]`))
	}))
	defer ts.Close()

	c := New(ts.URL, time.Minute, nil)
	req.NoError(c.Refresh(context.Background()))
	req.True(c.Has("wave"))

	fail.Store(true)
	req.Error(c.Refresh(context.Background()))
	// The previous set survives a failed refresh.
	req.True(c.Has("wave"))
}

func TestCatalogDecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	c := New(ts.URL, time.Minute, nil)
	require.Error(t, c.Refresh(context.Background()))
	require.False(t, c.Has("wave"))
}

func TestDisabledCatalogKnowsNothing(t *testing.T) {
	c := New("", time.Minute, nil)
	require.False(t, c.Has("wave"))

	// Run returns immediately when no URL is configured.
	done := make(chan struct{})
	go func() {
		c.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately for a disabled catalog")
	}
}
