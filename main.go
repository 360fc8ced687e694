package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/impovo/monitor/ioc"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initViper() bool {
	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.yaml", "specify config file")
	once := pflag.Bool("once", false, "run a single monitoring round and exit")
	pflag.Parse()

	// .env 可选, 用于存放 webhook 等敏感配置
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(fmt.Errorf("load .env: %w", err))
	}

	ioc.SetDefaults()
	ioc.InitEnv()

	if _, err := os.Stat(*file); err == nil {
		viper.SetConfigFile(*file)
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("read config file %s: %w", *file, err))
		}
	}
	return *once
}

func main() {
	once := initViper()
	ioc.InitLogger()

	store := ioc.InitStore()
	m := ioc.InitMonitor(store, ioc.InitSources())
	runner := ioc.InitRunner(m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("funding monitor started", "exchanges", m.Exchanges(), "once", once)
	if once {
		runner.RunOnce(ctx)
		return
	}
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("monitor stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("funding monitor stopped")
}
