// Command newsreel turns fresh RSS news into viral social media cards.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/tesso57/newsreel/internal/application/usecase"
	"github.com/tesso57/newsreel/internal/infrastructure/ai/chat"
	"github.com/tesso57/newsreel/internal/infrastructure/config"
	"github.com/tesso57/newsreel/internal/infrastructure/logging"
	"github.com/tesso57/newsreel/internal/infrastructure/scheduler"
	"github.com/tesso57/newsreel/internal/presentation/cli"
)

type appContext struct {
	ctx    context.Context
	store  *config.Store
	logger *log.Logger
	out    io.Writer
}

// CLI is the command line surface.
type CLI struct {
	Config   string `help:"Config file path (default ~/.config/newsreel/config.yaml)" type:"path"`
	LogLevel string `name:"log-level" help:"Override log level (debug, info, warn, error)"`

	Run      RunCmd      `cmd:"" help:"Run the full pipeline once"`
	Collect  CollectCmd  `cmd:"" help:"Collect fresh items from the configured feeds"`
	Extract  ExtractCmd  `cmd:"" help:"Extract articles from URLs"`
	Schedule ScheduleCmd `cmd:"" help:"Run the pipeline on the configured cron schedule"`
	Topics   TopicsCmd   `cmd:"" help:"Manage topic feeds"`
}

// RunCmd runs one pipeline pass.
type RunCmd struct{}

func (RunCmd) Run(app *appContext) error {
	p, err := newPipeline(app.store.Settings, app.logger)
	if err != nil {
		return err
	}
	digest, err := p.Run(app.ctx)
	if errors.Is(err, usecase.ErrNoArticles) {
		app.logger.Warn("nothing to publish this run", "items", len(digest.Items), "articles", len(digest.Articles))
		return nil
	}
	if len(digest.Posts) > 0 {
		_, _ = fmt.Fprint(app.out, cli.Posts(digest.Posts, cli.DefaultWidth))
	}
	return err
}

// CollectCmd prints collected items.
type CollectCmd struct {
	JSON bool `help:"Print JSON instead of a styled preview"`
}

func (c CollectCmd) Run(app *appContext) error {
	s := app.store.Settings
	res, err := newCollector(s, app.logger).Collect(app.ctx, s.TopicList(), collectOptions(s))
	if err != nil {
		return err
	}
	if c.JSON {
		return writeJSON(app.out, res.Items)
	}
	_, _ = fmt.Fprintln(app.out, cli.Items(res.Items, cli.DefaultWidth))
	_, _ = fmt.Fprintln(app.out, cli.Report(res.Report))
	return nil
}

// ExtractCmd extracts articles from the given URLs.
type ExtractCmd struct {
	URLs    []string `arg:"" name:"url" help:"Article URLs"`
	Preview bool     `help:"Print a styled preview instead of JSON"`
}

func (c ExtractCmd) Run(app *appContext) error {
	ex := newExtractor(app.store.Settings, app.logger)
	articles, err := usecase.ExtractAll(app.ctx, ex, c.URLs, usecase.NewExtractPacer(), app.logger)
	if err != nil {
		return err
	}
	if c.Preview {
		_, _ = fmt.Fprint(app.out, cli.Articles(articles, cli.DefaultWidth))
		return nil
	}
	return writeJSON(app.out, articles)
}

// ScheduleCmd runs the pipeline on a cron schedule until interrupted.
type ScheduleCmd struct {
	Now bool `help:"Also run once immediately"`
}

func (c ScheduleCmd) Run(app *appContext) error {
	p, err := newPipeline(app.store.Settings, app.logger)
	if err != nil {
		return err
	}
	s, err := scheduler.New(app.store.Settings.Schedule, func(ctx context.Context) error {
		_, err := p.Run(ctx)
		if errors.Is(err, usecase.ErrNoArticles) {
			app.logger.Warn("nothing to publish this run")
			return nil
		}
		return err
	}, app.logger)
	if err != nil {
		return err
	}
	err = s.Run(app.ctx, c.Now)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// TopicsCmd groups topic management.
type TopicsCmd struct {
	List   TopicsListCmd   `cmd:"" default:"1" help:"List topics and feeds"`
	Add    TopicsAddCmd    `cmd:"" help:"Add a feed to a topic"`
	Remove TopicsRemoveCmd `cmd:"" help:"Remove a topic"`
}

// TopicsListCmd lists topics.
type TopicsListCmd struct{}

func (TopicsListCmd) Run(app *appContext) error {
	for _, t := range app.store.Topics() {
		_, _ = fmt.Fprintf(app.out, "%s\n", t.Name)
		for _, f := range t.Feeds {
			_, _ = fmt.Fprintf(app.out, "  %s\n", f)
		}
	}
	return nil
}

// TopicsAddCmd adds a feed.
type TopicsAddCmd struct {
	Topic string `arg:"" help:"Topic name"`
	URL   string `arg:"" name:"url" help:"Feed URL"`
}

func (c TopicsAddCmd) Run(app *appContext) error {
	if err := app.store.AddFeed(c.Topic, c.URL); err != nil {
		return err
	}
	app.logger.Info("feed added", "topic", c.Topic, "url", c.URL, "config", app.store.Path())
	return nil
}

// TopicsRemoveCmd removes a topic.
type TopicsRemoveCmd struct {
	Topic string `arg:"" help:"Topic name"`
}

func (c TopicsRemoveCmd) Run(app *appContext) error {
	if err := app.store.RemoveTopic(c.Topic); err != nil {
		return err
	}
	app.logger.Info("topic removed", "topic", c.Topic)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// logOutput returns stderr, teed into today's log file when dir is set.
// The returned close func is always safe to call.
func logOutput(stderr io.Writer, dir string, now time.Time) (io.Writer, func(), error) {
	if dir == "" {
		return stderr, func() {}, nil
	}
	f, err := logging.OpenFile(dir, now)
	if err != nil {
		return nil, nil, err
	}
	return io.MultiWriter(stderr, f), func() { _ = f.Close() }, nil
}

func main() {
	var c CLI
	kctx := kong.Parse(&c,
		kong.Name("newsreel"),
		kong.Description("Collect fresh RSS news, rewrite it for social media and render viral cards."),
		kong.UsageOnError(),
	)
	os.Exit(run(kctx, c))
}

// run executes the parsed command and returns the process exit code, so
// deferred cleanup finishes before main exits.
func run(kctx *kong.Context, c CLI) int {
	store, err := config.Load(c.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	level := store.Settings.LogLevel
	if c.LogLevel != "" {
		level = c.LogLevel
	}
	out, closeLog, err := logOutput(os.Stderr, store.Settings.LogDir, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	logger, err := logging.New(out, level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger.Debug("config loaded", "path", store.Path(), "model", store.Settings.LLM.Model, "key", chat.Redact(store.Settings.LLM.APIKey))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := kctx.Run(&appContext{ctx: ctx, store: store, logger: logger, out: os.Stdout}); err != nil {
		logger.Error("command failed", "err", err)
		return 1
	}
	return 0
}
