package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/otaclient/iot-logging-server/internal/cloudlogs"
	"github.com/otaclient/iot-logging-server/internal/config"
	"github.com/otaclient/iot-logging-server/pkg/bounded_queue"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idleUploader struct{}

func (idleUploader) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// freePortPair reserves two adjacent loopback ports for the HTTP and gRPC
// listeners.
func freePortPair(t *testing.T) uint16 {
	t.Helper()
	for attempt := 0; attempt < 16; attempt++ {
		l1, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := l1.Addr().(*net.TCPAddr).Port
		l2, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port+1))
		_ = l1.Close()
		if err != nil {
			continue
		}
		_ = l2.Close()
		p, err := safecast.ToUint16(port)
		require.NoError(t, err)
		return p
	}
	t.Fatal("no adjacent free port pair found")
	return 0
}

func TestServerRun(t *testing.T) {
	cfg := config.NewDefault()
	cfg.ListenAddress = "127.0.0.1"
	cfg.ListenPort = freePortPair(t)

	queue := bounded_queue.NewBoundedQueue[cloudlogs.Record](8)
	servicer := NewServicer(logrus.New(), queue, nil)
	srv := New(logrus.New(), cfg, servicer, idleUploader{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// wait for the listener to come up
	url := fmt.Sprintf("http://%s/main", cfg.ListenAddr())
	var resp *http.Response
	require.Eventually(t, func() bool {
		var err error
		resp, err = http.Post(url, "text/plain", strings.NewReader("hello"))
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, queue.Len())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
