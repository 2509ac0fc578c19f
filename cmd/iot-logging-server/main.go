package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/otaclient/iot-logging-server/internal/awsiot"
	"github.com/otaclient/iot-logging-server/internal/cloudlogs"
	"github.com/otaclient/iot-logging-server/internal/config"
	"github.com/otaclient/iot-logging-server/internal/ecuinfo"
	"github.com/otaclient/iot-logging-server/internal/greengrass"
	"github.com/otaclient/iot-logging-server/internal/monitor"
	"github.com/otaclient/iot-logging-server/internal/server"
	"github.com/otaclient/iot-logging-server/pkg/bounded_queue"
	"github.com/otaclient/iot-logging-server/pkg/log"
)

func main() {
	logger := log.InitLogs()

	cfg, err := config.NewFromEnv()
	if err != nil {
		logger.Fatalf("loading configuration: %v", err)
	}
	log.SetLevel(logger, cfg.ServerLoggingLevel)

	logger.Infoln("starting otaclient iot logging server")
	defer logger.Infoln("otaclient iot logging server stopped")
	logger.Infof("configuration: %s", cfg)

	profiles, err := greengrass.LoadProfileTable(cfg.AWSProfileInfo)
	if err != nil {
		logger.Fatalf("loading profile table: %v", err)
	}
	identity, err := greengrass.Load(cfg.GreengrassV2Config, cfg.GreengrassV1Config, profiles)
	if err != nil {
		logger.Fatalf("loading device identity: %v", err)
	}
	logger.Infof("device identity loaded: thing %s, profile %s, region %s", identity.ThingName, identity.Profile, identity.Region)

	// the allow-list file is optional; without it, filtering is disabled
	info, err := ecuinfo.Load(cfg.ECUInfoYAML)
	if err != nil {
		logger.Warnf("ecu info unavailable: %v", err)
		info = nil
	}

	tlsConfig, err := awsiot.TLSClientConfig(identity)
	if err != nil {
		logger.Fatalf("building mTLS client config: %v", err)
	}
	credentials := awsiot.NewCachedProvider(
		awsiot.NewCredentialProvider(identity, tlsConfig, logger.WithField("component", "awsiot")))

	client := cloudlogs.NewClient(aws.Config{
		Region:      identity.Region,
		Credentials: credentials,
	}, logger.WithField("component", "cloudlogs"))

	queue := bounded_queue.NewBoundedQueue[cloudlogs.Record](cfg.MaxLogsBacklog)
	uploader := cloudlogs.NewUploader(
		logger.WithField("component", "uploader"),
		client, queue,
		identity.ThingName,
		identity.LogGroup(), identity.MetricsLogGroup(),
		cfg.MaxLogsPerMerge, cfg.UploadInterval,
	)

	if cfg.UploadLoggingServerLogs {
		suffix := cfg.ServerLogstreamSuffix
		logger.AddHook(log.NewTeeHook(func(timestampMs int64, message string) {
			// drop silently on a full queue; the hook must never
			// block or log
			_ = queue.TryPush(cloudlogs.Record{
				GroupType:    cloudlogs.GroupTypeLog,
				StreamSuffix: suffix,
				Message:      cloudlogs.LogMessage{TimestampMs: timestampMs, Message: message},
			})
		}))
		logger.Infof("uploading server logs as stream suffix %s", suffix)
	}

	servicer := server.NewServicer(logger.WithField("component", "ingress"), queue, info)
	srv := server.New(logger, cfg, servicer, uploader)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.ExitOnConfigChange {
		watcher := monitor.New(logger.WithField("component", "monitor"), stop,
			cfg.GreengrassV1Config, cfg.GreengrassV2Config, cfg.AWSProfileInfo, cfg.ECUInfoYAML)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Warnf("config monitor stopped: %v", err)
			}
		}()
	}

	if err := srv.Run(ctx); err != nil {
		logger.Fatalf("running logging server: %v", err)
	}
}
