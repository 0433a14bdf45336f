package main

import (
	"fmt"
	"os"
	"time"

	"github.com/campuscal/campuscal/internal/app"
	"github.com/campuscal/campuscal/internal/utils"
	"github.com/campuscal/campuscal/pkg/event"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func init() {
	// Load .env first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	cliApp := &cli.App{
		Name:  "campuscal",
		Usage: "Cache-first client for the campus semester and events API.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "./config/application.yaml",
				Usage: "Path to the configuration file.",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			syncCommand(),
			eventsCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local HTTP API and background sync.",
		Action: func(c *cli.Context) error {
			application, err := app.NewApplication(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Run one sync cycle and exit.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Bypass the cache staleness thresholds."},
		},
		Action: func(c *cli.Context) error {
			application, err := app.NewApplication(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			deps := application.Deps()

			if err := deps.ViewService.Sync(c.Context, !c.Bool("force")); err != nil {
				return err
			}

			snap := deps.ViewService.Snapshot()
			sem, _ := deps.ViewService.Semester()
			fmt.Printf("Semester: %s (%s)\n", sem.Name, sem.ID)
			fmt.Printf("Events:   %d\n", len(snap.Events))
			return nil
		},
	}
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Print the projected events for a filter and date.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "filter", Value: "all", Usage: "One of: day, week, month, all."},
			&cli.StringFlag{Name: "date", Usage: "Reference date (2006-01-02); defaults to today."},
		},
		Action: func(c *cli.Context) error {
			filter, err := event.ParseFilter(c.String("filter"))
			if err != nil {
				return err
			}
			refDate := time.Now()
			if raw := c.String("date"); raw != "" {
				refDate, err = utils.ParseFlexibleTime(raw)
				if err != nil {
					return err
				}
			}

			application, err := app.NewApplication(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			deps := application.Deps()

			if err := deps.ViewService.Initialize(c.Context); err != nil {
				return err
			}

			snap := deps.ViewService.ProjectAt(filter, refDate)
			if len(snap.Events) == 0 {
				fmt.Println(snap.EmptyMessage)
				return nil
			}
			for _, e := range snap.Events {
				fmt.Printf("%s  %-10s %s\n", e.Date.Format("2006-01-02 15:04"), e.Type, e.Title)
			}
			return nil
		},
	}
}
