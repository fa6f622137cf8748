package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/config"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/hris-workflow-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/authz"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-workflow-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-workflow-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-workflow-go/internal/service/approval"
	attendanceService "github.com/cmlabs-hris/hris-workflow-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hris-workflow-go/internal/service/auth"
	leaveService "github.com/cmlabs-hris/hris-workflow-go/internal/service/leave"
	"golang.org/x/time/rate"
)

var version = "dev"

// repositories is the storage backend selected by STORE_DRIVER.
type repositories struct {
	tx                 database.Transactor
	users              user.UserRepository
	employees          employee.EmployeeRepository
	leaveTypes         leave.LeaveTypeRepository
	leaves             leave.LeaveRepository
	requestTypes       attendance.AttendanceRequestTypeRepository
	attendanceRequests attendance.AttendanceRequestRepository
	attendance         attendance.AttendanceRepository
	close              func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}
	enforcer, err := authz.NewEnforcer(user.RolePermissions)
	if err != nil {
		return fmt.Errorf("init authz: %w", err)
	}

	gate := approval.NewGate(repos.users)
	authService := serviceAuth.NewAuthService(repos.users, JWTService)
	leaveSvc := leaveService.NewLeaveService(repos.tx, gate, repos.leaves, repos.leaveTypes, repos.employees)
	requestSvc := attendanceService.NewAttendanceRequestService(
		repos.tx,
		gate,
		repos.attendanceRequests,
		repos.requestTypes,
		repos.leaves,
		repos.employees,
	)
	attendanceSvc := attendanceService.NewAttendanceService(repos.tx, repos.attendance, repos.employees)

	loginLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.LoginPerSecond), cfg.RateLimit.LoginBurst)
	scheduler := cron.NewScheduler()
	scheduler.AddJob("login-limiter-sweep", time.Minute, func(ctx context.Context) error {
		remaining := loginLimiter.Sweep(time.Now().Add(-middleware.IdleLimiterTTL))
		slog.Debug("login limiters swept", "remaining", remaining)
		return nil
	})
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			Version:        version,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
			LoginLimiter:   loginLimiter,
		},
		JWTService,
		enforcer,
		appHTTP.Handlers{
			Auth:              appHTTP.NewAuthHandler(authService),
			Leave:             appHTTP.NewLeaveHandler(leaveSvc, enforcer),
			AttendanceRequest: appHTTP.NewAttendanceRequestHandler(requestSvc, enforcer),
			Attendance:        appHTTP.NewAttendanceHandler(attendanceSvc, enforcer),
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", srv.Addr, "store", cfg.App.StoreDriver, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		store := memory.NewStore()
		if err := store.SeedDemo(cfg.App.DemoPassword); err != nil {
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
		slog.Warn("using in-memory store with demo accounts")
		return &repositories{
			tx:                 store,
			users:              store.Users(),
			employees:          store.Employees(),
			leaveTypes:         store.LeaveTypes(),
			leaves:             store.Leaves(),
			requestTypes:       store.RequestTypes(),
			attendanceRequests: store.AttendanceRequests(),
			attendance:         store.Attendance(),
			close:              func() {},
		}, nil
	}

	dsn := cfg.DatabaseURL()
	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(dsn); err != nil {
			return nil, err
		}
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &repositories{
		tx:                 postgresql.NewTransactor(db),
		users:              postgresql.NewUserRepository(db),
		employees:          postgresql.NewEmployeeRepository(db),
		leaveTypes:         postgresql.NewLeaveTypeRepository(db),
		leaves:             postgresql.NewLeaveRepository(db),
		requestTypes:       postgresql.NewAttendanceRequestTypeRepository(db),
		attendanceRequests: postgresql.NewAttendanceRequestRepository(db),
		attendance:         postgresql.NewAttendanceRepository(db),
		close:              db.Close,
	}, nil
}
