package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/stafma/stafma-backend-go/internal/config"
	"github.com/stafma/stafma-backend-go/internal/domain/advance"
	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/domain/leave"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
	appHTTP "github.com/stafma/stafma-backend-go/internal/handler/http"
	"github.com/stafma/stafma-backend-go/internal/pkg/cron"
	"github.com/stafma/stafma-backend-go/internal/pkg/database"
	"github.com/stafma/stafma-backend-go/internal/pkg/jwt"
	"github.com/stafma/stafma-backend-go/internal/pkg/sse"
	"github.com/stafma/stafma-backend-go/internal/repository/memory"
	"github.com/stafma/stafma-backend-go/internal/repository/postgresql"
	advanceService "github.com/stafma/stafma-backend-go/internal/service/advance"
	companyService "github.com/stafma/stafma-backend-go/internal/service/company"
	disbursementService "github.com/stafma/stafma-backend-go/internal/service/disbursement"
	employeeService "github.com/stafma/stafma-backend-go/internal/service/employee"
	leaveService "github.com/stafma/stafma-backend-go/internal/service/leave"
	payrollService "github.com/stafma/stafma-backend-go/internal/service/payroll"
)

type repositories struct {
	transactor   database.Transactor
	company      company.CompanyRepository
	employee     employee.EmployeeRepository
	payroll      payroll.PayrollRepository
	transaction  disbursement.TransactionRepository
	advance      advance.AdvanceRepository
	leaveRequest leave.LeaveRequestRepository
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage: ", err)
	}
	defer repos.close()

	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	transferer := disbursementService.NewSimulatedTransferer(cfg.Disbursement.TransferLatency, cfg.Disbursement.SuccessRate)
	disbursementSvc := disbursementService.NewDisbursementService(repos.transaction, transferer, disbursementService.Options{
		ReferencePrefix: cfg.Disbursement.ReferencePrefix,
		TransferTimeout: cfg.Disbursement.TransferTimeout,
		Events:          hub,
	})

	var guardOpts []payrollService.GuardOption
	if month, year, ok := cfg.Payroll.BypassMonthYear(); ok {
		guardOpts = append(guardOpts, payrollService.WithBypassPeriod(payroll.Period{Month: month, Year: year}))
		slog.Warn("Future-period check bypassed", "period", cfg.Payroll.BypassPeriod)
	}
	guard := payrollService.NewPeriodGuard(repos.company, repos.payroll, guardOpts...)
	calculator := payrollService.NewCalculator(payrollService.NewDeductionPolicy(cfg.Payroll.PensionRate, cfg.Payroll.PensionCap))

	payrollSvc := payrollService.NewPayrollService(
		repos.company,
		repos.employee,
		repos.payroll,
		disbursementSvc,
		calculator,
		guard,
		payrollService.Options{
			SourceAccount: disbursement.Account{
				BankName:      cfg.Disbursement.SourceBankName,
				AccountName:   cfg.Disbursement.SourceAccountName,
				AccountNumber: cfg.Disbursement.SourceAccountNo,
			},
			Concurrency: cfg.Payroll.Concurrency,
			Events:      hub,
		},
	)
	advanceSvc := advanceService.NewAdvanceService(repos.advance, repos.employee, disbursementSvc, advanceService.Options{
		FeeRate:       cfg.Advance.FeeRate,
		RepaymentDays: cfg.Advance.RepaymentDays,
		SourceAccount: disbursement.Account{
			BankName:      cfg.Disbursement.SourceBankName,
			AccountName:   cfg.Disbursement.AdvanceAccountName,
			AccountNumber: cfg.Disbursement.AdvanceAccountNo,
		},
		Concurrency: cfg.Payroll.Concurrency,
		Events:      hub,
	})
	leaveSvc := leaveService.NewLeaveService(repos.transactor, repos.leaveRequest, repos.employee)
	employeeSvc := employeeService.NewEmployeeService(repos.transactor, repos.employee, repos.company)
	companySvc := companyService.NewCompanyService(repos.company)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Payroll:  appHTTP.NewPayrollHandler(payrollSvc, disbursementSvc),
		Advance:  appHTTP.NewAdvanceHandler(advanceSvc),
		Leave:    appHTTP.NewLeaveHandler(leaveSvc),
		Employee: appHTTP.NewEmployeeHandler(employeeSvc),
		Company:  appHTTP.NewCompanyHandler(companySvc),
		Events:   appHTTP.NewEventHandler(hub, JWTService),
	}, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         logger,
	})

	scheduler := cron.NewScheduler()
	jobs := cron.NewDisbursementJobs(disbursementSvc, cfg.Disbursement.StalePendingAfter, cfg.Disbursement.SweepInterval)
	if err := jobs.RegisterJobs(scheduler); err != nil {
		log.Fatal("Failed to register cron jobs: ", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.App.StorageDriver, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "stafma"),
		slog.String("env", cfg.App.Env),
	)
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.App.StorageDriver {
	case "memory":
		store := memory.NewStore()
		slog.Warn("Using in-memory storage; data is lost on restart")
		return &repositories{
			transactor:   store,
			company:      memory.NewCompanyRepository(store),
			employee:     memory.NewEmployeeRepository(store),
			payroll:      memory.NewPayrollRepository(store),
			transaction:  memory.NewTransactionRepository(store),
			advance:      memory.NewAdvanceRepository(store),
			leaveRequest: memory.NewLeaveRequestRepository(store),
			close:        func() {},
		}, nil
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Database.Migrate {
			if err := database.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		return &repositories{
			transactor:   postgresql.NewTransactor(db),
			company:      postgresql.NewCompanyRepository(db),
			employee:     postgresql.NewEmployeeRepository(db),
			payroll:      postgresql.NewPayrollRepository(db),
			transaction:  postgresql.NewTransactionRepository(db),
			advance:      postgresql.NewAdvanceRepository(db),
			leaveRequest: postgresql.NewLeaveRequestRepository(db),
			close:        db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.App.StorageDriver)
	}
}
