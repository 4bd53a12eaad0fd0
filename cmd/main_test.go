package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_CancelsStreamsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	streaming := make(chan struct{})
	ended := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		close(streaming)
		<-r.Context().Done()
		close(ended)
	})

	srv := newServer(ctx, "", handler)
	ts := httptest.NewUnstartedServer(handler)
	ts.Config = srv
	ts.Start()
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	<-streaming

	cancel()
	select {
	case <-ended:
	case <-time.After(2 * time.Second):
		t.Fatal("stream kept running after the base context was cancelled")
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	assert.NoError(t, srv.Shutdown(shutdownCtx))
}
