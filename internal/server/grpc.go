package server

import (
	"context"
	"time"

	pb "github.com/otaclient/iot-logging-server/api/grpc/v1"
	"github.com/otaclient/iot-logging-server/internal/cloudlogs"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

// GRPCService implements OTAClientIoTLoggingService on top of the shared
// servicer.
type GRPCService struct {
	pb.UnimplementedOTAClientIoTLoggingServiceServer
	log      logrus.FieldLogger
	servicer *Servicer
}

func NewGRPCService(log logrus.FieldLogger, servicer *Servicer) *GRPCService {
	return &GRPCService{
		log:      log,
		servicer: servicer,
	}
}

// PrepareGRPCService builds the gRPC server with the service registered.
func (s *GRPCService) PrepareGRPCService() *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.loggingInterceptor),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: 15 * time.Minute, // Close idle connections after 15 minutes
			Time:              2 * time.Minute,  // Send keepalive ping every 2 minutes
			Timeout:           20 * time.Second, // Wait 20s for client response before closing
		}))
	pb.RegisterOTAClientIoTLoggingServiceServer(server, s)
	return server
}

func (s *GRPCService) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.log.Debugf("%s took %s", info.FullMethod, time.Since(start))
	return resp, err
}

// Check reports SERVING unconditionally while the process runs.
func (s *GRPCService) Check(_ context.Context, _ *pb.HealthCheckRequest) (*pb.HealthCheckResponse, error) {
	return &pb.HealthCheckResponse{Status: pb.HealthCheckResponse_SERVING}, nil
}

// PutLog enqueues one producer record. The level is accepted and forwarded
// opaquely; it does not affect routing.
func (s *GRPCService) PutLog(_ context.Context, req *pb.PutLogRequest) (*pb.PutLogResponse, error) {
	groupType := cloudlogs.GroupTypeLog
	if req.GetLogType() == pb.LogType_METRICS {
		groupType = cloudlogs.GroupTypeMetrics
	}

	code := s.servicer.PutLog(req.GetEcuId(), groupType, req.GetTimestamp(), req.GetMessage())
	return &pb.PutLogResponse{Code: code}, nil
}
