// Package bootstrap arma la infraestructura compartida por los binarios de cmd/ (API y lote de
// facturación): almacenamiento según STORAGE_DRIVER y locks según REDIS_ADDR.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/warenwelt-api/internal/application/ports"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/lock"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/memory"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/postgres"
	"github.com/jhoicas/warenwelt-api/pkg/config"
	"github.com/jhoicas/warenwelt-api/pkg/logger"
)

// TxRunner lo implementan postgres.TxRunner y memory.Store.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// Storage repositorios fuera de transacción más el runner transaccional.
type Storage struct {
	Tx    TxRunner
	Repos repository.Repositories
	Close func()
}

// OpenStorage abre PostgreSQL (aplicando migraciones) o el almacén en memoria.
func OpenStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &Storage{Tx: store, Repos: store.Repositories(), Close: func() {}}, nil
	case "postgres", "":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		return &Storage{Tx: postgres.NewTxRunner(pool), Repos: postgres.NewRepositories(pool), Close: pool.Close}, nil
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.Storage.Driver)
	}
}

// NewLocker usa Redis si hay REDIS_ADDR; si no, un lock local al proceso.
// El cierre devuelto libera la conexión a Redis.
func NewLocker(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (ports.Locker, func(), error) {
	if cfg.Addr == "" {
		log.Info().Msg("sin REDIS_ADDR: locks locales al proceso")
		return lock.NewLocalLocker(), func() {}, nil
	}
	rdb, err := lock.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Addr).Msg("locks distribuidos en Redis")
	ttl := time.Duration(cfg.LockTTLSeconds) * time.Second
	return lock.NewRedisLocker(rdb, ttl), func() { _ = rdb.Close() }, nil
}
