package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/otaclient/iot-logging-server/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// shutdownGrace bounds how long in-flight requests may run after a shutdown
// signal.
const shutdownGrace = 1 * time.Second

// Runner is the uploader's surface the server drives; it must return once
// its context is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// Server ties both ingress listeners, the uploader and the optional metrics
// listener to one lifecycle.
type Server struct {
	log      logrus.FieldLogger
	cfg      *config.Config
	servicer *Servicer
	uploader Runner
}

func New(log logrus.FieldLogger, cfg *config.Config, servicer *Servicer, uploader Runner) *Server {
	return &Server{
		log:      log,
		cfg:      cfg,
		servicer: servicer,
		uploader: uploader,
	}
}

// Run serves until the context is cancelled, then gives in-flight requests a
// short grace period and returns.
func (s *Server) Run(ctx context.Context) error {
	httpListener, err := net.Listen("tcp", s.cfg.ListenAddr())
	if err != nil {
		return err
	}
	grpcListener, err := net.Listen("tcp", s.cfg.GRPCListenAddr())
	if err != nil {
		_ = httpListener.Close()
		return err
	}

	group, ctx := errgroup.WithContext(ctx)

	httpServer := &http.Server{Handler: NewRouter(s.log, s.servicer)}
	group.Go(func() error {
		s.log.Infof("http ingress listening on %s", s.cfg.ListenAddr())
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	grpcServer := NewGRPCService(s.log, s.servicer).PrepareGRPCService()
	group.Go(func() error {
		s.log.Infof("grpc ingress listening on %s", s.cfg.GRPCListenAddr())
		return grpcServer.Serve(grpcListener)
	})

	group.Go(func() error {
		return s.uploader.Run(ctx)
	})

	if s.cfg.MetricsListenAddress != "" {
		metricsServer := &http.Server{Addr: s.cfg.MetricsListenAddress, Handler: promhttp.Handler()}
		group.Go(func() error {
			s.log.Infof("metrics listening on %s", s.cfg.MetricsListenAddress)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-ctx.Done()
			return metricsServer.Close()
		})
	}

	group.Go(func() error {
		notifyReady(ctx, s.log)
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			_ = httpServer.Close()
		}

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(shutdownGrace):
			grpcServer.Stop()
		}
		return nil
	})

	return group.Wait()
}
