package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/shoppingcart/pkg/config"
	"github.com/angelmondragon/shoppingcart/pkg/db"
	"github.com/angelmondragon/shoppingcart/pkg/db/models"
	"github.com/angelmondragon/shoppingcart/pkg/logger"
)

// MaybeAutoMigrate prepares the schema when the auto-migrate flag is set.
// SQLite gets a GORM AutoMigrate of the cart models; postgres runs the goose
// migrations, and only in dev.
func MaybeAutoMigrate(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.FeatureFlags.UseSQLite {
		ctx = logg.WithField(ctx, "dialect", client.Dialect())
		logg.Info(ctx, "running gorm automigrate")
		if err := client.DB().WithContext(ctx).AutoMigrate(&models.ShoppingCart{}, &models.ShoppingCartLine{}); err != nil {
			return fmt.Errorf("gorm automigrate: %w", err)
		}
		return nil
	}

	if !cfg.App.IsDev() {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
