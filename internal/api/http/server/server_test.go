package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brlima/auth-gateway/internal/config"
	"github.com/brlima/auth-gateway/internal/testutil"
)

func TestServer_StartStop(t *testing.T) {
	srv := New(
		config.HTTP{Host: "127.0.0.1", Port: "0"},
		http.NewServeMux(),
		testutil.MakeNoopLogger(),
	)

	done := make(chan error, 1)
	go func() {
		done <- srv.Start()
	}()

	// give the listener a moment to come up before stopping
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
