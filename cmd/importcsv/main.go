package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/NikKurkov/api-yamdb/internal/config"
	"github.com/NikKurkov/api-yamdb/internal/csvimport"
	"github.com/NikKurkov/api-yamdb/internal/lib/logger"
	"github.com/NikKurkov/api-yamdb/internal/storage/postgres"
)

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	dataDir := flag.String("data", "static/data", "directory with csv files")
	flag.Parse()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	storage, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		panic(err)
	}
	defer storage.Conn.Close()
	log.Info("database connection established")
	importer := csvimport.New(log, storage.Conn)
	if err := importer.Run(context.Background(), *dataDir); err != nil {
		log.Error("import failed", "reason", err.Error())
		os.Exit(1)
	}
	log.Info("import finished")
}
