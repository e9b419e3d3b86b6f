package api

import (
	"context"
	"strconv"

	"barpos/internal/auth"
	"barpos/internal/catalog"
	"barpos/internal/common/httpx"
	"barpos/internal/common/logger"
	"barpos/internal/config"
	"barpos/internal/connections/database"
	"barpos/internal/connections/rabbitmq"
	"barpos/internal/connections/redisconn"
	"barpos/internal/engine"
	"barpos/internal/events"
	"barpos/internal/repository"
	"barpos/internal/sales"
	"barpos/internal/tables"
	"barpos/internal/users"
)

// Run wires the whole API service and serves until ctx is cancelled.
func Run(ctx context.Context, cfg config.App, port int) error {
	lg := logger.New("api-server")

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		return err
	}
	lg.Info("db_connected", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Name})

	rmq, err := rabbitmq.Dial(cfg.Rabbit)
	if err != nil {
		return err
	}
	defer rmq.Close()
	if err := rmq.DeclareTopology(); err != nil {
		return err
	}
	lg.Info("rabbitmq_connected", map[string]any{"host": cfg.Rabbit.Host})

	rds, err := redisconn.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rds.Close()
	lg.Info("redis_connected", map[string]any{"host": cfg.Redis.Host})

	store := repository.NewStore(pool)
	eng := engine.New(store, events.NewPublisher(rmq), lg.With("engine"))

	userSvc := users.NewService(repository.NewUsersRepo(pool))
	h := NewHandlers(
		eng,
		catalog.NewService(repository.NewProductsRepo(pool)),
		tables.NewService(repository.NewTablesRepo(pool)),
		userSvc,
		sales.NewService(repository.NewOrdersRepo(pool)),
		auth.NewRedisSessionStore(rds, cfg.Auth.SessionTTL),
		cfg.Auth.SessionTTL,
		lg,
	)

	srv := httpx.New(":"+strconv.Itoa(port), Router(h))
	lg.Info("service_started", map[string]any{"port": port})
	return srv.Run(ctx)
}
