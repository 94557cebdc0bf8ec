package migrate

import (
	"context"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, pg_trgm
	CreateChecks           bool // CHECK-constraint'ы
	CreateIndexes          bool // индексы и UNIQUE
	CreateFKsViaSQL        bool // FK через Exec после AutoMigrate
	CreateUpdatedAtTrigger bool // триггеры updated_at
	CreateSearchIndexes    bool // GIN trgm для поиска по name
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
		CreateSearchIndexes:    true,
	}
}

func MigrateBackofficeDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы каталога/заказов")

	if opt.CreateExtensions {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("pgcrypto error", zap.Error(err))
			return err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
			log.Error("pg_trgm error", zap.Error(err))
			return err
		}
	}

	log.Info("Создание таблиц")
	if err := db.AutoMigrate(
		&models.Product{},
		&models.OptionGroup{},
		&models.Option{},
		&models.Variant{},
		&models.VariantOption{},
		&models.Driver{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Error("AutoMigrate error", zap.Error(err))
		return err
	}

	if opt.CreateUpdatedAtTrigger {
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_option_groups_updated ON option_groups;
CREATE TRIGGER trg_option_groups_updated BEFORE UPDATE ON option_groups
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_options_updated ON options;
CREATE TRIGGER trg_options_updated BEFORE UPDATE ON options
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_variants_updated ON variants;
CREATE TRIGGER trg_variants_updated BEFORE UPDATE ON variants
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("triggers error", zap.Error(err))
			return err
		}
	}

	if opt.CreateChecks {
		// Остатки и количества — неотрицательные
		if err := db.Exec(`
ALTER TABLE products
	DROP CONSTRAINT IF EXISTS chk_products_quantity_non_negative,
	ADD CONSTRAINT chk_products_quantity_non_negative
	CHECK (quantity >= 0 AND price_cents >= 0);
`).Error; err != nil {
			log.Error("chk products", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE variants
	DROP CONSTRAINT IF EXISTS chk_variants_stock_non_negative,
	ADD CONSTRAINT chk_variants_stock_non_negative
	CHECK (stock >= 0);
`).Error; err != nil {
			log.Error("chk variants.stock", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE options
	DROP CONSTRAINT IF EXISTS chk_options_stock_non_negative,
	ADD CONSTRAINT chk_options_stock_non_negative
	CHECK (stock >= 0 AND price_value >= 0);
`).Error; err != nil {
			log.Error("chk options", zap.Error(err))
			return err
		}

		// Level >= 1; у корневых групп parent отсутствует
		if err := db.Exec(`
ALTER TABLE option_groups
	DROP CONSTRAINT IF EXISTS chk_option_groups_level,
	ADD CONSTRAINT chk_option_groups_level
	CHECK (level >= 1 AND (parent_group_id IS NOT NULL OR level = 1));
`).Error; err != nil {
			log.Error("chk option_groups.level", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE order_items
	DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero,
	ADD CONSTRAINT chk_order_items_quantity_gt_zero
	CHECK (quantity > 0);
`).Error; err != nil {
			log.Error("chk order_items.qty", zap.Error(err))
			return err
		}

		// Допустимые состояния и источники
		if err := db.Exec(`
ALTER TABLE orders
	DROP CONSTRAINT IF EXISTS chk_orders_state_allowed,
	ADD CONSTRAINT chk_orders_state_allowed
	CHECK (state IN ('PLACED','DELIVERING','RETURNED','COMPLETED'));
`).Error; err != nil {
			log.Error("chk orders.state", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE orders
	DROP CONSTRAINT IF EXISTS chk_orders_source_allowed,
	ADD CONSTRAINT chk_orders_source_allowed
	CHECK (source IN ('ADMIN','CUSTOMER'));
`).Error; err != nil {
			log.Error("chk orders.source", zap.Error(err))
			return err
		}
	}

	if opt.CreateIndexes {
		// Один вариант на комбинацию опций в рамках товара
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_variants_product_hash
ON variants (product_id, option_hash);
`).Error; err != nil {
			log.Error("ux variants product_hash", zap.Error(err))
			return err
		}

		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_variant_options
ON variant_options (variant_id, option_id);
`).Error; err != nil {
			log.Error("ux variant_options", zap.Error(err))
			return err
		}

		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_state_created
ON orders (state, created_at DESC);
`).Error; err != nil {
			log.Error("ix orders state_created", zap.Error(err))
			return err
		}
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_option_groups_product_level
ON option_groups (product_id, level, sort_order);
`).Error; err != nil {
			log.Error("ix option_groups product_level", zap.Error(err))
			return err
		}
	}

	if opt.CreateSearchIndexes {
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS gin_products_name_trgm
ON products USING gin (name gin_trgm_ops);
`).Error; err != nil {
			log.Error("gin products.name", zap.Error(err))
			return err
		}
	}

	if opt.CreateFKsViaSQL {
		// Самоссылка дерева групп: удаление родителя запрещено, пока есть потомки —
		// каскад выполняется сервисом каталога от самых глубоких уровней вверх
		if err := db.Exec(`
ALTER TABLE option_groups
  DROP CONSTRAINT IF EXISTS fk_option_groups_parent,
  ADD CONSTRAINT fk_option_groups_parent
    FOREIGN KEY (parent_group_id) REFERENCES option_groups(id) ON DELETE RESTRICT;
`).Error; err != nil {
			log.Error("fk option_groups.parent_group_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE option_groups
  DROP CONSTRAINT IF EXISTS fk_option_groups_product,
  ADD CONSTRAINT fk_option_groups_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk option_groups.product_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE options
  DROP CONSTRAINT IF EXISTS fk_options_group,
  ADD CONSTRAINT fk_options_group
    FOREIGN KEY (option_group_id) REFERENCES option_groups(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk options.option_group_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE variants
  DROP CONSTRAINT IF EXISTS fk_variants_product,
  ADD CONSTRAINT fk_variants_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk variants.product_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE variant_options
  DROP CONSTRAINT IF EXISTS fk_variant_options_variant,
  ADD CONSTRAINT fk_variant_options_variant
    FOREIGN KEY (variant_id) REFERENCES variants(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk variant_options.variant_id", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE variant_options
  DROP CONSTRAINT IF EXISTS fk_variant_options_option,
  ADD CONSTRAINT fk_variant_options_option
    FOREIGN KEY (option_id) REFERENCES options(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk variant_options.option_id", zap.Error(err))
			return err
		}

		// Строка заказа держит вариант: удалить вариант, на который ссылаются заказы, нельзя
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_variant,
  ADD CONSTRAINT fk_order_items_variant
    FOREIGN KEY (variant_id) REFERENCES variants(id) ON DELETE RESTRICT;
`).Error; err != nil {
			log.Error("fk order_items.variant_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_product,
  ADD CONSTRAINT fk_order_items_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT;
`).Error; err != nil {
			log.Error("fk order_items.product_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order
    FOREIGN KEY (order_code) REFERENCES orders(code) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk order_items.order_code", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_driver,
  ADD CONSTRAINT fk_orders_driver
    FOREIGN KEY (driver_id) REFERENCES drivers(id) ON DELETE SET NULL;
`).Error; err != nil {
			log.Error("fk orders.driver_id", zap.Error(err))
			return err
		}
	}

	log.Info("Миграция базы каталога/заказов успешно завершена")
	return nil
}
