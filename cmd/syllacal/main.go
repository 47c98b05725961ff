package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"syllacal/internal/canvas"
	"syllacal/internal/config"
	"syllacal/internal/creds"
	"syllacal/internal/gather"
	"syllacal/internal/ics"
	appLog "syllacal/internal/log"
	"syllacal/internal/match"
	"syllacal/internal/parse"
	"syllacal/internal/pipeline"
	"syllacal/internal/ui"
)

func main() {
	cmd := &cli.Command{
		Name:  "syllacal",
		Usage: "Generate ICS calendars from Canvas assignments and syllabus material",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to settings file",
				Value:   "syllacal.yaml",
				Sources: cli.EnvVars("SYLLACAL_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Path to credentials env file",
				Value:   ".env",
				Sources: cli.EnvVars("SYLLACAL_ENV"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "setup",
				Usage:  "Store Canvas and Gemini credentials",
				Action: runSetup,
			},
			{
				Name:   "wipe",
				Usage:  "Delete stored credentials",
				Action: runWipe,
			},
			{
				Name:   "run",
				Usage:  "Interactive course-to-calendar flow",
				Action: runFlow,
			},
		},
		// Bare invocation starts the interactive flow.
		Action: runFlow,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		appLog.Error("syllacal failed", err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cli.Command) {
	if cmd.Bool("debug") {
		appLog.SetLevel(appLog.LevelDebug)
	}
}

func runSetup(_ context.Context, cmd *cli.Command) error {
	setupLogging(cmd)
	in := bufio.NewReader(os.Stdin)
	return creds.Prompt(in, os.Stdout, cmd.String("env"))
}

func runWipe(_ context.Context, cmd *cli.Command) error {
	setupLogging(cmd)
	path := cmd.String("env")
	if err := creds.Delete(path); err != nil {
		if errors.Is(err, creds.ErrNotConfigured) {
			fmt.Printf("No credentials file at %s.\n", path)
			return nil
		}
		return err
	}
	fmt.Printf("Deleted %s.\n", path)
	return nil
}

func runFlow(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	cr, err := creds.Load(cmd.String("env"))
	if err != nil {
		if errors.Is(err, creds.ErrNotConfigured) {
			fmt.Println("Credentials are not set up yet. Run 'syllacal setup' first.")
			return nil
		}
		return err
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	session := ui.NewSession(os.Stdin, os.Stdout)
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		session.Location = loc
	} else {
		appLog.Warn("configured timezone is invalid, using UTC", "timezone", cfg.Timezone)
	}
	if err := session.PromptTimezone(); err != nil {
		return err
	}

	client := canvas.NewClient(cr.CanvasURL, cr.CanvasKey)

	extractor, err := parse.NewExtractor(ctx, cr.GeminiKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("init extraction backend: %w", err)
	}

	sim := match.DiceSimilarity{}
	p := &pipeline.Pipeline{
		Backend: client,
		Gatherer: gather.NewGatherer(client, gather.Options{
			Retries:                cfg.DownloadRetries,
			Delay:                  time.Duration(cfg.DownloadDelaySeconds) * time.Second,
			Extensions:             cfg.TextExtensions,
			SyllabusKeywords:       cfg.SyllabusKeywords,
			FilterModulesByKeyword: cfg.FilterModulesByKeyword,
			ShortCircuitInline:     true,
			WorkDir:                cfg.OutputDir,
		}),
		Extractor:  extractor,
		Reconciler: match.NewReconciler(sim, session.Location),
		Emitter:    ics.NewEmitter(session.Location, cfg.OutputDir),
		Session:    session,
		Similarity: sim,
	}

	session.Printf("Fetching courses...\n")
	courses, err := client.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("fetch courses: %w", err)
	}
	if len(courses) == 0 {
		session.Printf("No courses found for this user.\n")
		return nil
	}

	for {
		course, err := session.PickCourse(courses)
		if err != nil {
			return err
		}
		if course == nil {
			session.Printf("Bye.\n")
			return nil
		}
		// Course-level failures return control to course selection; the
		// session itself survives everything short of user exit.
		if err := p.ProcessCourse(ctx, *course); err != nil {
			appLog.Error("course processing failed", err, "course", course.Name)
			session.Printf("Could not process %s: %v\n", course.Name, err)
		}
	}
}
