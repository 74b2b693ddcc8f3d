package components

import (
	"voltspot/internal/infra/cache"
	"voltspot/internal/infra/db"
	"voltspot/internal/infra/readstore"
	"voltspot/internal/infra/repository"
	"voltspot/internal/infra/uow"
	"voltspot/internal/pkg/config"
	"voltspot/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Booking views
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
		),
		// Charger reads outside a transaction
		fx.Annotate(
			repository.NewChargerRepository,
			fx.As(new(queries.ChargerReader)),
		),
		// Slot cache
		fx.Annotate(
			NewSlotCache,
			fx.As(new(queries.SlotCache)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork: transactional repositories hang off the Tx, so only the
		// UoW itself is wired here.
		uow.NewPostgresUoW,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewSlotCache(rdb *redis.Client, cfg config.Config) *cache.SlotCache {
	return cache.NewSlotCache(rdb, cfg.Redis)
}
