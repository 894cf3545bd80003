package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lyb88999/v2m-batch/cmd/v2m-batch/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "v2m-batch",
		Usage: "Batch test harness for the video2mp3 conversion API",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Submit a URL list and poll every job to completion",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "URL list file, one URL per line, # for comments (\"-\" for stdin)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "api",
						Usage: "API base URL (default http://localhost:8080, env V2M_API_URL)",
					},
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Polling interval",
						Value: 2 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-job timeout",
						Value: 180 * time.Second,
					},
					&cli.StringFlag{
						Name:  "report",
						Usage: "Write a JSON batch report to this path",
					},
					&cli.StringFlag{
						Name:  "env",
						Usage: "Environment file path",
						Value: ".env",
					},
				},
				Action: commands.RunAction,
			},
			{
				Name:  "job",
				Usage: "Inspect and manage individual jobs",
				Commands: []*cli.Command{
					{
						Name:  "status",
						Usage: "Show one job",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "id",
								Usage:    "Job ID",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "api",
								Usage: "API base URL (default http://localhost:8080, env V2M_API_URL)",
							},
							&cli.StringFlag{
								Name:  "env",
								Usage: "Environment file path",
								Value: ".env",
							},
						},
						Action: commands.JobStatusAction,
					},
					{
						Name:  "list",
						Usage: "List recent jobs",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of jobs to list",
								Value: 20,
							},
							&cli.StringFlag{
								Name:  "api",
								Usage: "API base URL (default http://localhost:8080, env V2M_API_URL)",
							},
							&cli.StringFlag{
								Name:  "env",
								Usage: "Environment file path",
								Value: ".env",
							},
						},
						Action: commands.JobListAction,
					},
					{
						Name:  "retry",
						Usage: "Requeue a failed or expired job",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "id",
								Usage:    "Job ID",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "api",
								Usage: "API base URL (default http://localhost:8080, env V2M_API_URL)",
							},
							&cli.StringFlag{
								Name:  "env",
								Usage: "Environment file path",
								Value: ".env",
							},
						},
						Action: commands.JobRetryAction,
					},
					{
						Name:  "download",
						Usage: "Download the converted MP3 of a ready job",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "id",
								Usage:    "Job ID",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "out",
								Usage: "Output directory (default current directory, env V2M_DOWNLOAD_DIR)",
							},
							&cli.StringFlag{
								Name:  "api",
								Usage: "API base URL (default http://localhost:8080, env V2M_API_URL)",
							},
							&cli.StringFlag{
								Name:  "env",
								Usage: "Environment file path",
								Value: ".env",
							},
						},
						Action: commands.JobDownloadAction,
					},
				},
			},
			{
				Name:  "health",
				Usage: "Check the API health endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "api",
						Usage: "API base URL (default http://localhost:8080, env V2M_API_URL)",
					},
					&cli.StringFlag{
						Name:  "env",
						Usage: "Environment file path",
						Value: ".env",
					},
				},
				Action: commands.HealthAction,
			},
			{
				Name:  "cleanup",
				Usage: "Delete old jobs on the server",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "retention-days",
						Usage: "Delete jobs older than this many days (0 uses the server default)",
					},
					&cli.StringFlag{
						Name:  "api",
						Usage: "API base URL (default http://localhost:8080, env V2M_API_URL)",
					},
					&cli.StringFlag{
						Name:  "env",
						Usage: "Environment file path",
						Value: ".env",
					},
				},
				Action: commands.CleanupAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
