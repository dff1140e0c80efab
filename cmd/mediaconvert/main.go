package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgivc/mediaconvert/internal/app"
	"github.com/urfave/cli/v2"
)

const defaultHistory = 10

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "mediaconvert",
		Usage: "convert media folders into web ready trees",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yml",
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "convert one folder into its -converted sibling",
				ArgsUsage: "<dir>",
				Action: withApp(func(c *cli.Context, a *app.App) error {
					dir, err := argDir(c)
					if err != nil {
						return err
					}

					return a.Convert(c.Context, dir)
				}),
			},
			{
				Name:      "batch",
				Usage:     "convert every folder under root",
				ArgsUsage: "<root>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "indexed",
						Usage: "also process folders named as outputs",
					},
				},
				Action: withApp(func(c *cli.Context, a *app.App) error {
					root, err := argDir(c)
					if err != nil {
						return err
					}

					return a.Batch(c.Context, root, c.Bool("indexed"))
				}),
			},
			{
				Name:  "catalog",
				Usage: "build catalog files from converted folders",
				Subcommands: []*cli.Command{
					{
						Name:      "years",
						Usage:     "write the unit/year table",
						ArgsUsage: "<root>",
						Action: withApp(func(c *cli.Context, a *app.App) error {
							root, err := argDir(c)
							if err != nil {
								return err
							}

							return a.Years(root)
						}),
					},
					{
						Name:      "frontmatter",
						Usage:     "write project index pages from the data file",
						ArgsUsage: "<root>",
						Action: withApp(func(c *cli.Context, a *app.App) error {
							root, err := argDir(c)
							if err != nil {
								return err
							}

							return a.Frontmatter(root)
						}),
					},
				},
			},
			{
				Name:  "history",
				Usage: "show recent runs recorded in redis",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "n",
						Value: defaultHistory,
						Usage: "number of runs",
					},
				},
				Action: withApp(func(c *cli.Context, a *app.App) error {
					return a.History(c.Context, c.Int64("n"))
				}),
			},
		},
	}
}

func withApp(action func(c *cli.Context, a *app.App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a := app.New(c.String("config"), c.String("log-level"))
		if err := a.Start(); err != nil {
			return err
		}
		defer a.Stop()

		return action(c, a)
	}
}

func argDir(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("usage: %s %s", c.Command.FullName(), c.Command.ArgsUsage), 2)
	}

	return c.Args().First(), nil
}
