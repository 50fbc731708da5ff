package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

var timeNow = time.Now

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "stock",
		Usage: "Shop inventory and till",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "driver", Usage: "sqlite or postgres (overrides DB_DRIVER)"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database file (overrides SQLITE_PATH)"},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			addCommand(),
			removeCommand(),
			updateCommand(),
			priceCommand(),
			deleteCommand(),
			findCommand(),
			modelCommand(),
			searchCommand(),
			listCommand(),
			totalsCommand(),
			sellCommand(),
			reportCommand(),
		},
	}
}

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
