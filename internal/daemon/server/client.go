package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

// DashboardClient calls a remote Dashboard service and decodes replies into
// the dashboard's own types.
type DashboardClient struct {
	cc grpc.ClientConnInterface
}

// NewDashboardClient wraps a client connection.
func NewDashboardClient(cc grpc.ClientConnInterface) *DashboardClient {
	return &DashboardClient{cc: cc}
}

func (c *DashboardClient) invoke(ctx context.Context, method string, in any, out any) error {
	reply := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+DashboardServiceName+"/"+method, in, reply); err != nil {
		return err
	}
	return fromStruct(reply, out)
}

// Overview fetches the home view.
func (c *DashboardClient) Overview(ctx context.Context) (*dashboard.Overview, error) {
	var o dashboard.Overview
	if err := c.invoke(ctx, "GetOverview", &emptypb.Empty{}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Sessions fetches sessions, optionally filtered by kind.
func (c *DashboardClient) Sessions(ctx context.Context, kind models.SessionKind) ([]models.Session, error) {
	in, err := structpb.NewStruct(map[string]any{"kind": string(kind)})
	if err != nil {
		return nil, err
	}
	var out struct {
		Sessions []models.Session `json:"sessions"`
	}
	if err := c.invoke(ctx, "ListSessions", in, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// SessionsByFilter fetches sessions matching a named filter such as
// "Sub-Agent". Unknown names match nothing.
func (c *DashboardClient) SessionsByFilter(ctx context.Context, filter string) ([]models.Session, error) {
	in, err := structpb.NewStruct(map[string]any{"filter": filter})
	if err != nil {
		return nil, err
	}
	var out struct {
		Sessions []models.Session `json:"sessions"`
	}
	if err := c.invoke(ctx, "ListSessions", in, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// History fetches a session's messages.
func (c *DashboardClient) History(ctx context.Context, key string) ([]models.Message, error) {
	in, err := structpb.NewStruct(map[string]any{"key": key})
	if err != nil {
		return nil, err
	}
	var out struct {
		Messages []models.Message `json:"messages"`
	}
	if err := c.invoke(ctx, "GetHistory", in, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Subagents fetches the reconciled task view.
func (c *DashboardClient) Subagents(ctx context.Context) (*dashboard.TaskView, error) {
	var out struct {
		RunningKeys []string                   `json:"running_keys"`
		Running     []models.SubagentTaskEvent `json:"running"`
		Completed   []models.SubagentTaskEvent `json:"completed"`
		Tasks       map[string]string          `json:"tasks"`
	}
	if err := c.invoke(ctx, "GetSubagents", &emptypb.Empty{}, &out); err != nil {
		return nil, err
	}
	return &dashboard.TaskView{RunningKeys: out.RunningKeys, Running: out.Running, Completed: out.Completed, Tasks: out.Tasks}, nil
}

// Activity fetches activity events newest first.
func (c *DashboardClient) Activity(ctx context.Context, category string, limit int) ([]models.ActivityEvent, error) {
	in, err := structpb.NewStruct(map[string]any{"category": category, "limit": limit})
	if err != nil {
		return nil, err
	}
	var out struct {
		Events []models.ActivityEvent `json:"events"`
	}
	if err := c.invoke(ctx, "ListActivity", in, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

// CronJobs fetches scheduled jobs sorted by next run.
func (c *DashboardClient) CronJobs(ctx context.Context) ([]models.CronJob, error) {
	var out struct {
		Jobs []models.CronJob `json:"jobs"`
	}
	if err := c.invoke(ctx, "ListCronJobs", &emptypb.Empty{}, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// Deliverables fetches produced artifacts.
func (c *DashboardClient) Deliverables(ctx context.Context) ([]models.Deliverable, error) {
	var out struct {
		Items []models.Deliverable `json:"items"`
	}
	if err := c.invoke(ctx, "ListDeliverables", &emptypb.Empty{}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Refresh asks the daemon to drop its cached reads.
func (c *DashboardClient) Refresh(ctx context.Context) error {
	return c.cc.Invoke(ctx, "/"+DashboardServiceName+"/Refresh", &emptypb.Empty{}, new(emptypb.Empty))
}
