package server

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

// DashboardServiceName is the fully qualified gRPC service name. Bodies are
// google.protobuf.Struct documents shaped like the HTTP API's JSON, so no
// generated code is needed on either side.
const DashboardServiceName = "missioncontrol.v1.Dashboard"

// DashboardServer is the server interface for the Dashboard service.
type DashboardServer interface {
	GetOverview(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListSessions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSubagents(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListActivity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCronJobs(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListDeliverables(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Refresh(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

func unaryMethod[Req any](name string, call func(DashboardServer, context.Context, *Req) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DashboardServer), ctx, req.(*Req))
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + DashboardServiceName + "/" + name}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var dashboardServiceDesc = grpc.ServiceDesc{
	ServiceName: DashboardServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("GetOverview", func(s DashboardServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.GetOverview(ctx, in)
		}),
		unaryMethod("ListSessions", func(s DashboardServer, ctx context.Context, in *structpb.Struct) (any, error) {
			return s.ListSessions(ctx, in)
		}),
		unaryMethod("GetHistory", func(s DashboardServer, ctx context.Context, in *structpb.Struct) (any, error) {
			return s.GetHistory(ctx, in)
		}),
		unaryMethod("GetSubagents", func(s DashboardServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.GetSubagents(ctx, in)
		}),
		unaryMethod("ListActivity", func(s DashboardServer, ctx context.Context, in *structpb.Struct) (any, error) {
			return s.ListActivity(ctx, in)
		}),
		unaryMethod("ListCronJobs", func(s DashboardServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.ListCronJobs(ctx, in)
		}),
		unaryMethod("ListDeliverables", func(s DashboardServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.ListDeliverables(ctx, in)
		}),
		unaryMethod("Refresh", func(s DashboardServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.Refresh(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "missioncontrol/v1/dashboard.proto",
}

// RegisterDashboardServer registers srv on s.
func RegisterDashboardServer(s grpc.ServiceRegistrar, srv DashboardServer) {
	s.RegisterService(&dashboardServiceDesc, srv)
}

// toStruct converts a JSON-shaped value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return structpb.NewStruct(m)
}

// fromStruct decodes a protobuf Struct into v through its JSON form.
func fromStruct(s *structpb.Struct, v any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func stringField(in *structpb.Struct, name string) string {
	if in == nil {
		return ""
	}
	return in.GetFields()[name].GetStringValue()
}

func intField(in *structpb.Struct, name string) int {
	if in == nil {
		return 0
	}
	n := int(in.GetFields()[name].GetNumberValue())
	if n < 0 {
		return 0
	}
	return n
}

type dashboardService struct {
	server *Server
}

func (d *dashboardService) GetOverview(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(d.server.store.Overview())
}

func (d *dashboardService) ListSessions(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sessions := d.server.store.Sessions()
	if kind := stringField(in, "kind"); kind != "" {
		sessions = dashboard.FilterSessionsByKind(sessions, models.SessionKind(kind))
	} else if filter := stringField(in, "filter"); filter != "" {
		sessions = dashboard.FilterSessions(sessions, filter)
	}
	return toStruct(map[string]any{"sessions": sessions})
}

func (d *dashboardService) GetHistory(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	key := stringField(in, "key")
	if _, ok := dashboard.HistoryFileName(key); !ok {
		return nil, status.Error(codes.InvalidArgument, "invalid session key")
	}
	return toStruct(map[string]any{"key": key, "messages": d.server.store.History(key)})
}

func (d *dashboardService) GetSubagents(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	view := d.server.store.Subagents()
	return toStruct(map[string]any{
		"running_keys": view.RunningKeys,
		"running":      view.Running,
		"completed":    view.Completed,
		"tasks":        view.Tasks,
	})
}

func (d *dashboardService) ListActivity(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	category := stringField(in, "category")
	if category == "" {
		category = dashboard.FilterAll
	}
	events := dashboard.FilterActivity(d.server.store.Activity(), category)
	return toStruct(map[string]any{
		"category": category,
		"events":   dashboard.Recent(events, intField(in, "limit")),
	})
}

func (d *dashboardService) ListCronJobs(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	store := d.server.store
	return toStruct(map[string]any{"jobs": dashboard.SortCronJobs(dashboard.WithNextRuns(store.CronJobs(), store.Now()))})
}

func (d *dashboardService) ListDeliverables(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	items := d.server.store.Deliverables()
	return toStruct(map[string]any{"items": items, "groups": dashboard.GroupDeliverables(items)})
}

func (d *dashboardService) Refresh(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	if !d.server.refresh() {
		return nil, status.Error(codes.ResourceExhausted, "refresh rate limit exceeded")
	}
	return &emptypb.Empty{}, nil
}
