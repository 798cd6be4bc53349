package migration

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	accountdomain "github.com/smallbiznis/recouvro/internal/account/domain"
	activitydomain "github.com/smallbiznis/recouvro/internal/activity/domain"
	"github.com/smallbiznis/recouvro/internal/config"
	invoicedomain "github.com/smallbiznis/recouvro/internal/invoice/domain"
	"github.com/smallbiznis/recouvro/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql development setups rely on gorm's own
			// schema sync instead of the SQL files.
			err := conn.AutoMigrate(
				&invoicedomain.Invoice{},
				&activitydomain.Entry{},
				&accountdomain.Profile{},
				&accountdomain.PaymentMethod{},
				&accountdomain.BillingRecord{},
			)
			if err != nil {
				return err
			}
		}

		orgID := snowflake.ID(cfg.DefaultOrgID)
		if cfg.Seed.EnsureDefaultOrg && orgID != 0 {
			if err := seed.EnsureDefaultProfile(conn, orgID); err != nil {
				return err
			}
		}
		if cfg.Seed.DemoData && orgID != 0 {
			return seed.EnsureDemoData(conn, orgID)
		}
		return nil
	}),
)
