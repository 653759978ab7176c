// Package grpcbuf provides an in-memory gRPC health server for tests, built
// on bufconn so no network listener is needed.
package grpcbuf

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthserver "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

// StartHealthServer runs a gRPC health service reporting the given status and
// returns a connected client conn plus a stop function. The caller must call
// stop when done.
func StartHealthServer(status grpc_health_v1.HealthCheckResponse_ServingStatus) (*grpc.ClientConn, func(), error) {
	lis := bufconn.Listen(bufSize)

	srv := grpc.NewServer()
	hs := healthserver.NewServer()
	hs.SetServingStatus("", status)
	grpc_health_v1.RegisterHealthServer(srv, hs)

	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		srv.Stop()
		return nil, nil, err
	}

	stop := func() {
		_ = conn.Close()
		srv.Stop()
	}
	return conn, stop, nil
}
