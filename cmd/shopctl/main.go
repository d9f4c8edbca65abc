package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Duc13022005/Web-Shop/internal/app"
	"github.com/Duc13022005/Web-Shop/pkg/config"
	"github.com/Duc13022005/Web-Shop/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "shopctl"})

	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "shopctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap application", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := run(ctx, application, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "shopctl: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, `usage: shopctl <command> [flags]

commands:
  login       -email <email> -password <password>
  logout
  whoami
  products    [-category <id>] [-search <text>] [-page <n>] [-size <n>]
  product     <id>
  categories
  cart        show | add <product-id> [-qty <n>] | update <item-id> -qty <n> |
              remove <item-id> | clear
  checkout    -name <name> -phone <phone> -address <street> -city <city> [-notes <text>]
  orders
  order       <id>
  contact     -first <name> -last <name> -email <email> [-phone <phone>] -message <text>
  status`)
}
