package cli

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/clawd-ops/missioncontrol/internal/config"
	"github.com/clawd-ops/missioncontrol/internal/daemon/server"
	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

// source is where the report commands read from: the local state files or
// a running daemon.
type source interface {
	Overview(ctx context.Context) (*dashboard.Overview, error)
	Sessions(ctx context.Context, kind models.SessionKind) ([]models.Session, error)
	History(ctx context.Context, key string) ([]models.Message, error)
	Subagents(ctx context.Context) (*dashboard.TaskView, error)
	Activity(ctx context.Context, category string, limit int) ([]models.ActivityEvent, error)
	CronJobs(ctx context.Context) ([]models.CronJob, error)
	Deliverables(ctx context.Context) ([]models.Deliverable, error)
}

// localSource answers from the state files through a Store, shaping results
// the same way the daemon does.
type localSource struct {
	store *dashboard.Store
}

func (l localSource) Overview(context.Context) (*dashboard.Overview, error) {
	ov := l.store.Overview()
	return &ov, nil
}

func (l localSource) Sessions(_ context.Context, kind models.SessionKind) ([]models.Session, error) {
	return dashboard.FilterSessionsByKind(l.store.Sessions(), kind), nil
}

func (l localSource) History(_ context.Context, key string) ([]models.Message, error) {
	if _, ok := dashboard.HistoryFileName(key); !ok {
		return nil, fmt.Errorf("invalid session key %q", key)
	}
	return l.store.History(key), nil
}

func (l localSource) Subagents(context.Context) (*dashboard.TaskView, error) {
	view := l.store.Subagents()
	return &view, nil
}

func (l localSource) Activity(_ context.Context, category string, limit int) ([]models.ActivityEvent, error) {
	return dashboard.Recent(dashboard.FilterActivity(l.store.Activity(), category), limit), nil
}

func (l localSource) CronJobs(context.Context) ([]models.CronJob, error) {
	return dashboard.SortCronJobs(dashboard.WithNextRuns(l.store.CronJobs(), l.store.Now())), nil
}

func (l localSource) Deliverables(context.Context) ([]models.Deliverable, error) {
	return l.store.Deliverables(), nil
}

// openSource returns the source selected by --remote. The close func must be
// called when done.
func openSource() (source, func(), error) {
	if remote {
		conn, err := connectDaemon()
		if err != nil {
			return nil, nil, err
		}
		return server.NewDashboardClient(conn), func() { _ = conn.Close() }, nil
	}

	settings, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	return localSource{store: newStore(settings)}, func() {}, nil
}

// connectDaemon establishes a gRPC connection to the running daemon.
func connectDaemon() (*grpc.ClientConn, error) {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return nil, fmt.Errorf("failed to load daemon info: %w", err)
	}
	if !running || info == nil {
		return nil, fmt.Errorf("daemon not running. Start it with 'missioncontrol daemon start'")
	}

	addr := fmt.Sprintf("%s:%d", info.Host, info.GRPCPort)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}

	return conn, nil
}
