package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mcarrillo/storefront/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	// A local .env can carry STOREFRONT_* overrides during development.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	flag.Parse()

	// An optional positional argument deep-links into the catalog,
	// e.g. storefront "title=shoes&page=2".
	deepLink := ""
	if args := flag.Args(); len(args) > 0 {
		deepLink = args[0]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		DeepLink:   deepLink,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		return 1
	}
	return 0
}
