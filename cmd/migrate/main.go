package main

import (
	"errors"
	"flag"

	"escrow-core/pkg/config"
	"escrow-core/pkg/database"
	"escrow-core/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	var (
		command string
		dir     string
		steps   int
	)
	flag.StringVar(&command, "cmd", "up", "Command to run: up, down, version")
	flag.StringVar(&dir, "dir", "migrations", "Migrations directory")
	flag.IntVar(&steps, "steps", 0, "Run only N steps (up/down), 0 = all")
	flag.Parse()

	// 加载配置
	config.Init()
	logger.Init(config.Global.App.Env, "")
	defer logger.Sync()

	m, err := migrate.New("file://"+dir, database.MigrateURL(config.Global.DB))
	if err != nil {
		logger.Fatal("Migration init failed", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			logger.Fatal("Read version failed", zap.Error(verr))
		}
		logger.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return
	default:
		logger.Fatal("Unknown command", zap.String("cmd", command))
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Migration failed", zap.String("cmd", command), zap.Error(err))
	}
	logger.Info("Migration done", zap.String("cmd", command))
}
