package bootstrap

import (
	"github.com/agentvoice/relay/internal/credstore"
	"github.com/agentvoice/relay/internal/history"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideCredStore(redisClient *redis.Client) *credstore.Store {
	return credstore.NewStore(redisClient)
}

func ProvideHistoryStore(db *gorm.DB) *history.Store {
	return history.NewStore(db)
}

func RunMigrations(histStore *history.Store) error {
	return histStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideCredStore,
		ProvideHistoryStore,
	),
	fx.Invoke(RunMigrations),
)
