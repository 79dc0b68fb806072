package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/workforce-guard/internal/config"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/workforce-guard/internal/handler/http"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/clock"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/metrics"
	"github.com/cmlabs-hris/workforce-guard/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/workforce-guard/internal/service/attendance"
	expenseService "github.com/cmlabs-hris/workforce-guard/internal/service/expense"
	"github.com/cmlabs-hris/workforce-guard/internal/service/guard"
	permissionService "github.com/cmlabs-hris/workforce-guard/internal/service/permission"
	roleService "github.com/cmlabs-hris/workforce-guard/internal/service/role"
	settingService "github.com/cmlabs-hris/workforce-guard/internal/service/setting"
	shiftService "github.com/cmlabs-hris/workforce-guard/internal/service/shift"
	userService "github.com/cmlabs-hris/workforce-guard/internal/service/user"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func logLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	})))

	ctx := context.Background()

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	if cfg.Policy.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			log.Fatal("Failed to migrate schema:", err)
		}
	}

	var (
		userCache cache.Store[user.User]
		roleCache cache.Store[role.Role]
	)
	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Fatal("Failed to initialize redis cache:", err)
		}
		defer client.Close()
		userCache = cache.NewRedis[user.User](client, "perm:user", cfg.Cache.TTL)
		roleCache = cache.NewRedis[role.Role](client, "perm:role", cfg.Cache.TTL)
	default:
		userCache = cache.NewMemory[user.User](cfg.Cache.TTL, nil)
		roleCache = cache.NewMemory[role.Role](cfg.Cache.TTL, nil)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	orgClock := clock.NewOrgClock(cfg.Policy.Timezone)

	roleRepo := postgresql.NewRoleRepository(db)
	userRepo := postgresql.NewUserRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	lockRepo := postgresql.NewRegistrationLockRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	expenseRepo := postgresql.NewExpenseRepository(db)
	settingRepo := postgresql.NewSettingRepository(db)
	transactor := postgresql.NewTransactor(db)

	if _, err := fixtures.SeedSystemRoles(ctx, roleRepo); err != nil {
		log.Fatal("Failed to seed system roles:", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	evaluator := permissionService.NewEvaluator(userRepo, roleRepo, userCache, roleCache, recorder)
	settingSvc := settingService.NewSettingService(settingRepo, evaluator, cfg.Policy.RegistrationDeadlineDay)
	lockSvc := guard.NewRegistrationGuard(lockRepo, settingSvc, evaluator, cfg.Policy.UnlockWindow)
	roleSvc := roleService.NewRoleService(roleRepo, userRepo, evaluator)
	userSvc := userService.NewUserService(
		userRepo,
		roleRepo,
		shiftRepo,
		lockRepo,
		attendanceRepo,
		correctionRepo,
		expenseRepo,
		transactor,
		evaluator,
	)
	shiftSvc := shiftService.NewShiftService(shiftRepo, userRepo, lockSvc, evaluator, transactor, orgClock, recorder)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		correctionRepo,
		userRepo,
		evaluator,
		transactor,
		recorder,
		cfg.Policy.UndoWindow,
	)
	expenseSvc := expenseService.NewExpenseService(expenseRepo, userRepo, evaluator, recorder, cfg.Policy.ExpenseDeadlineDay)

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		metrics.Handler(registry),
		appHTTP.NewRoleHandler(roleSvc),
		appHTTP.NewUserHandler(userSvc),
		appHTTP.NewShiftHandler(shiftSvc, lockSvc, orgClock),
		appHTTP.NewAttendanceHandler(attendanceSvc, orgClock),
		appHTTP.NewExpenseHandler(expenseSvc, orgClock),
		appHTTP.NewSettingHandler(settingSvc),
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Server running", "addr", "http://localhost"+port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
