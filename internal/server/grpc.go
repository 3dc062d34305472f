package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// EscrowServiceName gRPC 健康检查里的服务名
const EscrowServiceName = "escrow.v1.EscrowService"

// NewGRPCServer 初始化 gRPC 服务 (标准健康检查 + reflection)
// 返回的 health.Server 用于关闭时切换为 NOT_SERVING
func NewGRPCServer() (*grpc.Server, *health.Server) {
	s := grpc.NewServer()

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(EscrowServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	reflection.Register(s)
	return s, hs
}
