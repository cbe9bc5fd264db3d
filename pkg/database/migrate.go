package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// 迁移脚本随二进制内嵌发布，部署时无需额外携带 SQL 文件
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations 将数据库结构补齐到最新迁移版本。
// 服务启动时调用；已是最新版本时为空操作。
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("读取内嵌迁移脚本失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("初始化 postgres 迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("构建迁移实例失败: %w", err)
	}

	err = m.Up()
	switch {
	case err == nil:
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("数据库结构已是最新，无迁移可执行")
	default:
		return fmt.Errorf("应用迁移失败: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("读取迁移版本失败: %w", verr)
	}
	if dirty {
		// dirty 说明上一次迁移中途失败，需人工修复后再启动
		logger.Warn("数据库迁移处于 dirty 状态，请人工处理", zap.Uint("version", version))
		return nil
	}

	logger.Info("数据库迁移完成", zap.Uint("version", version))
	return nil
}
