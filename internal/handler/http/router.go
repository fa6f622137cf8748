package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Env            string
	Version        string
	LogLevel       slog.Level
	AllowedOrigins []string
	// LoginLimiter throttles login attempts per client IP.
	LoginLimiter   *middleware.IPRateLimiter
}

type Handlers struct {
	Auth              AuthHandler
	Leave             LeaveHandler
	AttendanceRequest AttendanceRequestHandler
	Attendance        AttendanceHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, authz middleware.Authorizer, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-workflow"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestID)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	can := func(p user.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(authz, p)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimitByIP(opts.LoginLimiter)).Post("/login", h.Auth.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/profile", h.Auth.Profile)

			r.With(can(user.PermissionLeaveTypeView)).Get("/leave-types", h.Leave.ListTypes)

			r.Route("/leaves", func(r chi.Router) {
				r.With(can(user.PermissionLeaveView)).Get("/", h.Leave.List)
				r.With(can(user.PermissionLeaveSubmit)).Post("/", h.Leave.Submit)
				r.With(can(user.PermissionLeaveApprove)).Post("/approve", h.Leave.Approve)

				r.Route("/{id}", func(r chi.Router) {
					r.With(can(user.PermissionLeaveView)).Get("/", h.Leave.Get)
					r.With(can(user.PermissionLeaveUpdate), middleware.RequireEmployee).Put("/", h.Leave.Update)
					r.With(can(user.PermissionLeaveCancel)).Delete("/", h.Leave.Cancel)
				})
			})

			r.Route("/attendance-requests", func(r chi.Router) {
				r.With(can(user.PermissionAttendanceRequestView)).Get("/types", h.AttendanceRequest.ListTypes)
				r.With(can(user.PermissionAttendanceRequestView)).Get("/", h.AttendanceRequest.List)
				r.With(can(user.PermissionAttendanceRequestSubmit)).Post("/", h.AttendanceRequest.Submit)
				r.With(can(user.PermissionAttendanceRequestApprove)).Post("/approve", h.AttendanceRequest.Approve)

				r.Route("/{id}", func(r chi.Router) {
					r.With(can(user.PermissionAttendanceRequestView)).Get("/", h.AttendanceRequest.Get)
					r.With(can(user.PermissionAttendanceRequestUpdate), middleware.RequireEmployee).Put("/", h.AttendanceRequest.Update)
					r.With(can(user.PermissionAttendanceRequestCancel)).Delete("/", h.AttendanceRequest.Cancel)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(can(user.PermissionAttendanceView)).Get("/", h.Attendance.List)
				r.With(can(user.PermissionAttendanceCheckIn)).Post("/check-in", h.Attendance.CheckIn)
				r.With(can(user.PermissionAttendanceCheckOut)).Post("/check-out", h.Attendance.CheckOut)
				r.With(can(user.PermissionAttendanceView)).Get("/{id}", h.Attendance.Get)
			})
		})
	})
	return r
}
