package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/GlebRadaev/mileage/internal/accrual"
	"github.com/GlebRadaev/mileage/internal/cache"
	"github.com/GlebRadaev/mileage/internal/config"
	"github.com/GlebRadaev/mileage/internal/events"
	"github.com/GlebRadaev/mileage/internal/handlers"
	"github.com/GlebRadaev/mileage/internal/memstore"
	"github.com/GlebRadaev/mileage/internal/occ"
	"github.com/GlebRadaev/mileage/internal/pg"
	"github.com/GlebRadaev/mileage/internal/redeems"
	"github.com/GlebRadaev/mileage/internal/repo"
	"github.com/GlebRadaev/mileage/internal/service"
	"github.com/GlebRadaev/mileage/internal/service/ledgerservice"
	"github.com/GlebRadaev/mileage/internal/tracing"
	"github.com/GlebRadaev/mileage/pkg/auth"
	"github.com/GlebRadaev/mileage/pkg/clients"
	"github.com/GlebRadaev/mileage/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg     *config.Config
	api     *handlers.Handlers
	srv     *service.Services
	repo    *repo.Repositories
	ext     *accrual.Service
	redeems *redeems.Consumer

	closers []func(ctx context.Context) error

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}
	a.cfg = cfg

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("can't init tracer: %w", err)
	}
	a.onClose(shutdownTracer)

	a.repo, err = a.buildRepositories(ctx)
	if err != nil {
		return err
	}

	accountCache, err := a.buildCache(ctx)
	if err != nil {
		return err
	}

	policy := occ.Policy{
		MaxAttempts: cfg.MaxAttempts,
		Timeout:     cfg.SubmitTimeout,
		Backoff:     cfg.RetryBackoff,
	}
	a.srv = service.New(a.repo, a.buildPublisher(), accountCache, policy)
	a.api = handlers.New(a.srv, auth.NewJWTService(cfg.JWTSecret))
	a.ext = accrual.New(cfg, a.repo.ClaimRepo, a.repo.TransactionRepo, a.srv.LedgerService, clients.NewHTTPClient())

	if cfg.RabbitURL != "" {
		a.redeems, err = redeems.NewConsumer(cfg.RabbitURL, a.srv.LedgerService)
		if err != nil {
			zap.L().Error("rabbitmq consumer failed: ", zap.Error(err))
			return fmt.Errorf("can't start redeem consumer: %w", err)
		}
		a.onClose(func(context.Context) error {
			a.redeems.Close()
			return nil
		})
	}

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}
	if err = a.startGRPCServer(ctx); err != nil {
		return fmt.Errorf("can't start grpc server: %w", err)
	}

	a.startWorker(ctx, a.ext.Start)
	if a.redeems != nil {
		a.startWorker(ctx, a.redeems.Start)
	}

	a.ready = true
	zap.L().Info("all systems started successfully", zap.String("storage", cfg.Storage))
	return nil
}

func (a *Application) onClose(fn func(ctx context.Context) error) {
	a.closers = append(a.closers, fn)
}

func (a *Application) buildRepositories(ctx context.Context) (*repo.Repositories, error) {
	if a.cfg.Storage == config.StorageMemory {
		zap.L().Warn("using in-memory storage, data is lost on restart")
		return repo.NewMemory(memstore.New()), nil
	}

	pool, err := getPgxpool(ctx, a.cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return nil, fmt.Errorf("can't build pgx pool: %w", err)
	}
	a.onClose(func(context.Context) error {
		pool.Close()
		return nil
	})
	if err := pg.RunMigrations(ctx, pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return nil, fmt.Errorf("can't run migrations: %w", err)
	}
	return repo.New(pg.New(pool), pg.NewTXManager(pool)), nil
}

func (a *Application) buildCache(ctx context.Context) (service.Cache, error) {
	if a.cfg.RedisAddress == "" {
		return cache.Noop{}, nil
	}
	client, err := cache.NewClient(ctx, a.cfg.RedisAddress, a.cfg.RedisPassword)
	if err != nil {
		zap.L().Error("redis connection failed: ", zap.Error(err))
		return nil, fmt.Errorf("can't connect to redis: %w", err)
	}
	a.onClose(func(context.Context) error {
		return client.Close()
	})
	return cache.New(client, a.cfg.CacheTTL), nil
}

func (a *Application) buildPublisher() ledgerservice.Publisher {
	if len(a.cfg.KafkaBrokers) == 0 {
		return events.Noop{}
	}
	publisher := events.NewKafkaPublisher(a.cfg.KafkaBrokers, a.cfg.KafkaTopic)
	a.onClose(func(context.Context) error {
		return publisher.Close()
	})
	return publisher
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: otelhttp.NewHandler(router, tracing.ServiceName),
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("http server shutdown failed", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

// startGRPCServer exposes the standard health service for orchestrators. Disabled when GRPC_ADDRESS is empty.
func (a *Application) startGRPCServer(ctx context.Context) error {
	if a.cfg.GRPCAddress == "" {
		return nil
	}
	lis, err := net.Listen("tcp", a.cfg.GRPCAddress)
	if err != nil {
		return err
	}

	server := grpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(tracing.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()
		healthServer.Shutdown()
		server.GracefulStop()
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting grpc health server", zap.String("address", a.cfg.GRPCAddress))
		if err := server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			a.errCh <- fmt.Errorf("grpc server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) startWorker(ctx context.Context, run func(ctx context.Context)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		run(ctx)
	}()
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	if err := a.close(); err != nil && appErr == nil {
		appErr = err
	}
	return appErr
}

// close releases resources in reverse order of acquisition.
func (a *Application) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			zap.L().Error("close failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
