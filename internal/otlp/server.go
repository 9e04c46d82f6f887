package otlp

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	_ "google.golang.org/grpc/encoding/gzip"
	"google.golang.org/grpc/peer"

	"github.com/Oloruntobi1/flametop/internal/ingest"
)

const (
	serviceName  = "opentelemetry.proto.collector.profiles.v1development.ProfilesService"
	exportMethod = "/" + serviceName + "/Export"
)

// rawCodec hands message bytes through untouched so that requests can be
// decoded lazily with molecule instead of generated types.
type rawCodec struct{}

type rawMessage []byte

func (rawCodec) Name() string { return "proto" }

func (rawCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case rawMessage:
		return m, nil
	case *rawMessage:
		return *m, nil
	}
	return nil, fmt.Errorf("raw codec: cannot marshal %T", v)
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(*rawMessage)
	if !ok {
		return fmt.Errorf("raw codec: cannot unmarshal into %T", v)
	}
	// grpc may reuse data once Unmarshal returns.
	*m = append((*m)[:0], data...)
	return nil
}

type exporter interface {
	export(ctx context.Context, payload []byte)
}

var profilesServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*exporter)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Export",
		Handler:    exportHandler,
	}},
	Streams:  []grpc.StreamDesc{},
	Metadata: "opentelemetry/proto/collector/profiles/v1development/profiles_service.proto",
}

func exportHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	var in rawMessage
	if err := dec(&in); err != nil {
		return nil, err
	}
	handle := func(ctx context.Context, req any) (any, error) {
		srv.(exporter).export(ctx, *req.(*rawMessage))
		return rawMessage{}, nil
	}
	if interceptor == nil {
		return handle(ctx, &in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: exportMethod}
	return interceptor(ctx, &in, info, handle)
}

// Server implements the OTLP ProfilesService. Every Export call becomes
// exactly one ingest event, and every call is acknowledged as fully
// accepted, malformed or not.
type Server struct {
	queue *ingest.Queue
	log   logrus.FieldLogger
	grpc  *grpc.Server
}

// NewServer returns a server pushing fragments to queue.
func NewServer(queue *ingest.Queue, logger logrus.FieldLogger, opts ...grpc.ServerOption) *Server {
	s := &Server{
		queue: queue,
		log:   logger.WithField("component", "otlp"),
		grpc:  grpc.NewServer(append([]grpc.ServerOption{grpc.ForceServerCodec(rawCodec{})}, opts...)...),
	}
	s.grpc.RegisterService(&profilesServiceDesc, s)
	return s
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.grpc.GracefulStop()
		case <-done:
		}
	}()

	s.log.WithField("addr", lis.Addr().String()).Info("serving OTLP profiles")
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve otlp: %w", err)
	}
	return nil
}

// Stop closes all connections immediately.
func (s *Server) Stop() {
	s.grpc.Stop()
}

func (s *Server) export(ctx context.Context, payload []byte) {
	log := s.log
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		log = log.WithField("remote", p.Addr.String())
	}

	req, err := DecodeExportRequest(payload)
	if err != nil {
		log.WithError(err).Debug("malformed export request, keeping what decoded")
	}

	fragment, samples := BuildFragment(req)
	log.WithFields(logrus.Fields{
		"samples": samples,
		"dropped": req.SampleCount() - int(samples),
	}).Trace("export")

	if !s.queue.Push(ingest.Event{Fragment: fragment, Samples: samples, Source: ingest.SourceOTLP}) {
		log.Debug("ingest queue closed, dropping export")
	}
}
