package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/avolkov/minutedigest/internal/download"
	"github.com/avolkov/minutedigest/internal/extract"
	"github.com/avolkov/minutedigest/internal/run"
	"github.com/avolkov/minutedigest/internal/runs"
	"github.com/avolkov/minutedigest/internal/summarize"
	"github.com/avolkov/minutedigest/pkg/help"
)

func main() {
	app := &cli.App{
		Name:  "minutedigest",
		Usage: "scrape a meeting-minutes portal, download the PDFs, and summarize them with Gemini",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the YAML configuration file",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "collect document IDs from the portal search form into a catalog file",
				Action: extract.ExtractAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "catalog",
						Value: "catalog.yaml",
						Usage: "where to write the extracted catalog",
					},
					&cli.BoolFlag{
						Name:  "headless",
						Usage: "run the browser headless (overrides config)",
					},
				},
			},
			{
				Name:   "download",
				Usage:  "download PDFs for the catalog (or an explicit link list)",
				Action: download.DownloadAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "catalog",
						Value: "catalog.yaml",
						Usage: "catalog file from a previous extract run",
					},
					&cli.StringFlag{
						Name:  "links",
						Usage: "comma-separated document URLs (bypasses the catalog)",
					},
					&cli.IntFlag{
						Name:  "max",
						Usage: "maximum number of documents to download (0 = all)",
					},
					&cli.BoolFlag{
						Name:  "headless",
						Usage: "run the browser headless (overrides config)",
					},
				},
			},
			{
				Name:   "summarize",
				Usage:  "write a Gemini summary next to each downloaded PDF",
				Action: summarize.SummarizeAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "regenerate summaries that already exist",
					},
				},
			},
			{
				Name:   "run",
				Usage:  "full pipeline: extract, download, then summarize",
				Action: run.RunAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "catalog",
						Value: "catalog.yaml",
						Usage: "where to write the extracted catalog",
					},
					&cli.IntFlag{
						Name:  "max",
						Usage: "maximum number of documents to download (0 = all)",
					},
					&cli.BoolFlag{
						Name:  "headless",
						Usage: "run the browser headless (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "regenerate summaries that already exist",
					},
				},
			},
			{
				Name:  "runs",
				Usage: "inspect past pipeline runs",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "list recorded runs",
						Action: runs.ListAction,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "maximum number of runs to show",
							},
							&cli.BoolFlag{
								Name:  "today",
								Usage: "only runs from today",
							},
							&cli.BoolFlag{
								Name:  "failed",
								Usage: "only runs with failures",
							},
							&cli.StringFlag{
								Name:  "stage",
								Usage: "filter by stage (extract, download, summarize, run)",
							},
						},
					},
					{
						Name:      "show",
						Usage:     "show one run in detail (defaults to the latest)",
						ArgsUsage: "[run-id]",
						Action:    runs.ShowAction,
					},
				},
			},
			{
				Name:  "coldstart",
				Usage: "print a quick-start reference",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
