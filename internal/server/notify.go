package server

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/sirupsen/logrus"
)

// readyDelay gives the listeners a moment to come up before readiness is
// reported.
const readyDelay = 2 * time.Second

// notifyReady sends READY=1 to the systemd notify socket. Without
// NOTIFY_SOCKET it is a no-op; failures are logged and ignored.
func notifyReady(ctx context.Context, log logrus.FieldLogger) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(readyDelay):
	}

	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		log.Warnf("failed to notify readiness to systemd: %v", err)
		return
	}
	if sent {
		log.Info("notified readiness to systemd")
	}
}
