package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/workforce-guard/internal/config"
	"github.com/cmlabs-hris/workforce-guard/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	appCfg config.AppConfig,
	JWTService jwt.Service,
	metricsHandler http.Handler,
	roleHandler RoleHandler,
	userHandler UserHandler,
	shiftHandler ShiftHandler,
	attendanceHandler AttendanceHandler,
	expenseHandler ExpenseHandler,
	settingHandler SettingHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(appCfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce-guard"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appCfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.CORSOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", userHandler.Me)
			r.Get("/page-access", roleHandler.MyPageAccess)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Get("/", roleHandler.List)
			r.Post("/", roleHandler.Create)
			r.Put("/", roleHandler.Upsert)
			r.Get("/{id}", roleHandler.Get)
			r.Delete("/{id}", roleHandler.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.Get)
				r.Delete("/", userHandler.Delete)
				r.Put("/managers", userHandler.SetManagers)
				r.Put("/role", userHandler.AssignRole)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", shiftHandler.List)
			r.Post("/", shiftHandler.Request)
			r.Post("/force", shiftHandler.ForceRegister)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", shiftHandler.Get)
				r.Delete("/", shiftHandler.Delete)
				r.Post("/{action}", shiftHandler.Transition)
			})
		})

		r.Route("/shift-locks", func(r chi.Router) {
			r.Get("/", shiftHandler.LockStatus)
			r.Post("/unlock", shiftHandler.Unlock)
			r.Post("/lock", shiftHandler.Lock)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", attendanceHandler.List)
			r.Post("/", attendanceHandler.Record)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", attendanceHandler.Get)
				r.Delete("/", attendanceHandler.Delete)
				r.Get("/corrections", attendanceHandler.ListCorrections)
				r.Post("/corrections", attendanceHandler.Correct)
			})
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", expenseHandler.List)
			r.Post("/", expenseHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", expenseHandler.Update)
				r.Delete("/", expenseHandler.Delete)
				r.Post("/{action}", expenseHandler.Review)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/registration-deadline", settingHandler.GetRegistrationDeadline)
			r.Put("/registration-deadline", settingHandler.UpdateRegistrationDeadline)
		})
	})
	return r
}
