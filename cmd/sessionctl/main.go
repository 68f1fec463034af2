// Command sessionctl runs one-off session maintenance against the configured
// store: an immediate expiry sweep, or a progress table for one interview.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mockwiseai/backend/internal/config"
	"github.com/mockwiseai/backend/internal/events"
	"github.com/mockwiseai/backend/internal/jobs"
	"github.com/mockwiseai/backend/internal/scheduler"
	"github.com/mockwiseai/backend/internal/services"
	"github.com/mockwiseai/backend/internal/stores"
	"github.com/mockwiseai/backend/internal/utils"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const usage = `usage:
  sessionctl sweep                 finalize every overdue session now
  sessionctl progress <interview>  show candidate progress for an interview`

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		color.Red("config: %v", err)
		os.Exit(1)
	}
	// the CLI talks to stdout; keep zap quiet unless something goes wrong
	logger := utils.NewLogger(cfg.AppEnv).WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := open(ctx, cfg, logger)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	defer env.close(context.Background())

	switch cmd := flag.Arg(0); cmd {
	case "sweep":
		err = runSweep(ctx, env, logger)
	case "progress":
		if flag.NArg() < 2 {
			flag.Usage()
			os.Exit(2)
		}
		err = runProgress(ctx, env, flag.Arg(1))
	default:
		color.Red("unknown command %q", cmd)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		color.Red("%s: %v", flag.Arg(0), err)
		os.Exit(1)
	}
}

type cliEnv struct {
	backend  *stores.Backend
	rdb      *redis.Client
	sessions *services.SessionService
}

func (e *cliEnv) close(ctx context.Context) {
	e.sessions.Shutdown()
	if e.rdb != nil {
		_ = e.rdb.Close()
	}
	_ = e.backend.Close(ctx)
}

// open wires the session service the same way the server does, so a sweep
// from here clears the shared deadline index and announces completions to
// running replicas.
func open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*cliEnv, error) {
	backend, err := stores.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	env := &cliEnv{backend: backend}

	bus := events.NewBus(logger)
	deps := services.SessionDeps{
		Interviews:  backend.Interviews,
		Invitations: backend.Invitations,
		Submissions: backend.Submissions,
		Questions:   backend.Questions,
		Publisher:   bus,
		Logger:      logger,
	}
	if cfg.RedisAddr != "" {
		env.rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := env.rdb.Ping(ctx).Err(); err != nil {
			_ = backend.Close(ctx)
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		deps.Index = scheduler.NewRedisIndex(env.rdb, scheduler.DefaultDeadlineKey)
		deps.Publisher = events.NewRedisPublisher(env.rdb, events.DefaultChannel)
	} else {
		// no replicas to notify, so evaluate in process
		services.NewEvaluator(backend.Submissions, services.DefaultKeywordPolicy(), logger).Register(bus)
	}
	env.sessions = services.NewSessionService(deps)
	return env, nil
}

func runSweep(ctx context.Context, env *cliEnv, logger *zap.Logger) error {
	n, err := jobs.NewSweepJob(env.sessions, "", logger).RunOnce(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		color.Cyan("no overdue sessions")
		return nil
	}
	color.Green("finalized %d overdue session(s)", n)
	return nil
}

func runProgress(ctx context.Context, env *cliEnv, interviewID string) error {
	iv, err := env.backend.Interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return err
	}

	rows := make([]progressRow, 0, len(iv.Candidates))
	for _, c := range iv.Candidates {
		p, err := env.sessions.GetProgress(ctx, iv.ID, c.Email)
		if err != nil {
			return fmt.Errorf("progress for %s: %w", c.Email, err)
		}
		rows = append(rows, progressRow{Entry: c, Progress: p})
	}

	color.Yellow("\n%s (%s), %d minute(s)", iv.Title, iv.JobRole, iv.TotalTime)
	renderProgress(os.Stdout, rows)
	return nil
}
