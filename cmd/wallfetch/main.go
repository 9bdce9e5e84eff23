package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wallfetch/internal/analytics"
	"wallfetch/internal/cmdlog"
	"wallfetch/internal/config"
	"wallfetch/internal/ingest"
	"wallfetch/internal/jobs"
	"wallfetch/internal/logging"
	"wallfetch/internal/metrics"
	"wallfetch/internal/model"
	"wallfetch/internal/output"
	"wallfetch/internal/store/archive"
	"wallfetch/internal/theme"
	"wallfetch/internal/vkapi"
)

const defaultConfigPath = "./wallfetch.yaml"

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "resolve":
		cmdResolve()
	case "fetch":
		cmdFetch()
	case "post":
		cmdPost()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Fprintln(os.Stderr, "Usage: wallfetch <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  init        Create a config file at ./wallfetch.yaml")
	fmt.Fprintln(os.Stderr, "  resolve     Print the owner id of a community handle")
	fmt.Fprintln(os.Stderr, "  fetch       Harvest posts and comments of a wall within a date range")
	fmt.Fprintln(os.Stderr, "  post        Print the record of a single post")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

// env is what every network command needs.
type env struct {
	cfg   config.Config
	api   *vkapi.Client
	log   zerolog.Logger
	runID string
}

// setup loads config, applies flag overrides and builds the client and logger.
func setup(cfgPath string, overrides ...func(*config.Config)) (env, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return env{}, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return env{}, err
	}
	timeout, _ := cfg.API.TimeoutDuration()
	api := vkapi.NewClient(cfg.Credentials.AccessToken, vkapi.Options{
		BaseURL: cfg.API.BaseURL,
		Version: cfg.API.Version,
		Lang:    cfg.API.Lang,
		Timeout: timeout,
		RPS:     cfg.API.RPS,
		Burst:   cfg.API.Burst,
	})
	runID := uuid.NewString()
	log := logging.New(cfg.Logging, os.Stderr).With().Str("run_id", runID).Logger()
	metrics.StartServer(cfg.Metrics.Addr)
	return env{cfg: cfg, api: api, log: log, runID: runID}, nil
}

// loadConfig reads cfgPath. Only a missing default file falls back to
// defaults plus environment; an explicit path must exist.
func loadConfig(cfgPath string) (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) && cfgPath == defaultConfigPath {
		cfg = config.Default()
		cfg.ResolveEnv()
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (e env) context() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return logging.Into(ctx, e.log), cancel
}

func (e env) ingestOptions() ingest.Options {
	loc, _ := e.cfg.Fetch.Location()
	return ingest.Options{
		PageSize:       e.cfg.Fetch.PageSize,
		IncludeViews:   e.cfg.Fetch.IncludeViews,
		IncludeReposts: e.cfg.Fetch.IncludeReposts,
		DateLayout:     e.cfg.Fetch.DateLayout,
		Location:       loc,
	}
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", defaultConfigPath, "path to write config")
	_ = fs.Parse(os.Args[2:])
	if err := config.Save(*path, config.Default()); err != nil {
		fail(err)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Fprintln(os.Stderr, "Config written to:", abs)
	fmt.Fprintln(os.Stderr, "Set credentials.accessToken there or export VK_TOKEN.")
}

func cmdResolve() {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "config path")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() != 1 {
		fail(errors.New("usage: wallfetch resolve [-config path] <handle>"))
	}
	handle := fs.Arg(0)
	e, err := setup(*cfgPath)
	if err != nil {
		fail(err)
	}
	ctx, cancel := e.context()
	defer cancel()
	err = cmdlog.Run(ctx, "resolve", func(ctx context.Context) error {
		owner, found, err := ingest.ResolveOwner(ctx, e.api, handle)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", jobs.ErrGroupNotFound, handle)
		}
		fmt.Println(owner)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdFetch() {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "config path")
	domain := fs.String("domain", "", "community short name or id")
	from := fs.String("from", "", "window start, YYYY-MM-DD")
	to := fs.String("to", "", "window end, YYYY-MM-DD")
	maxPosts := fs.Int("max", 0, "stop after this many posts (0 = no limit)")
	out := fs.String("out", "", "output path, overrides output.path")
	format := fs.String("format", "", "jsonl or sqlite, overrides output.format")
	quiet := fs.Bool("quiet", false, "hide the progress bar")
	_ = fs.Parse(os.Args[2:])
	if *domain == "" || *from == "" || *to == "" {
		fail(errors.New("usage: wallfetch fetch -domain <handle> -from YYYY-MM-DD -to YYYY-MM-DD"))
	}
	e, err := setup(*cfgPath, func(c *config.Config) {
		if *out != "" {
			c.Output.Path = *out
		}
		if *format != "" {
			c.Output.Format = *format
		}
	})
	if err != nil {
		fail(err)
	}
	opts := e.ingestOptions()
	win, err := model.ParseDateWindow(*from, *to, opts.Location)
	if err != nil {
		fail(err)
	}
	ctx, cancel := e.context()
	defer cancel()

	err = cmdlog.Run(ctx, "fetch", func(ctx context.Context) error {
		var progress jobs.Progress
		if !*quiet {
			progress = newBarProgress(os.Stderr, *domain)
		}
		req := jobs.Request{Domain: *domain, Window: win, Max: *maxPosts, Options: opts}
		started := time.Now().UTC()
		results, err := jobs.RunRange(ctx, e.api, req, progress)
		if err != nil {
			return err
		}
		sink, err := openSink(ctx, e, req, results, started)
		if err != nil {
			return err
		}
		n, err := jobs.Export(ctx, results, sink)
		if cerr := sink.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		return printSummary(*domain, results, n, !*quiet)
	})
	if err != nil {
		fail(err)
	}
}

func openSink(ctx context.Context, e env, req jobs.Request, results []model.Result, started time.Time) (output.Sink, error) {
	if e.cfg.Output.Format != config.FormatSQLite {
		return output.OpenJSONL(e.cfg.Output.Path)
	}
	run := archive.Run{
		ID:          e.runID,
		Domain:      req.Domain,
		WindowStart: req.Window.Start,
		WindowEnd:   req.Window.End,
		StartedAt:   started,
	}
	if len(results) > 0 {
		run.OwnerID = results[0].OwnerID
	}
	return output.OpenArchive(ctx, e.cfg.Output.Path, run)
}

func cmdPost() {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "config path")
	owner := fs.Int64("owner", 0, "wall owner id (negative for communities)")
	post := fs.Int64("post", 0, "post id")
	wall := fs.String("wall", "", "post as <owner>_<post>, e.g. -1_42")
	_ = fs.Parse(os.Args[2:])
	ownerID, postID, err := postTarget(*owner, *post, *wall)
	if err != nil {
		fail(err)
	}
	e, err := setup(*cfgPath)
	if err != nil {
		fail(err)
	}
	ctx, cancel := e.context()
	defer cancel()
	err = cmdlog.Run(ctx, "post", func(ctx context.Context) error {
		rec, ok, err := ingest.BuildRecord(ctx, e.api, ownerID, postID, e.ingestOptions())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("post %d_%d is unavailable", ownerID, postID)
		}
		fmt.Println(rec)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func printSummary(domain string, results []model.Result, written int, perDay bool) error {
	sum, err := analytics.Summarize(results)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s: %d posts in window, %d written, %d unavailable, %d comments, %d replies\n",
		domain, len(results), written, sum.Missing, sum.Comments, sum.Replies)
	if perDay {
		for _, d := range sum.Days {
			fmt.Fprintf(os.Stderr, "  %s  posts=%d likes=%d comments=%d replies=%d\n", d.Date, d.Posts, d.Likes, d.Comments, d.Replies)
		}
	}
	return nil
}

// postTarget picks the post from -wall when given, else from -owner/-post.
// Both ids must be set.
func postTarget(owner, post int64, wall string) (int64, int64, error) {
	if wall != "" {
		o, p, err := parseWallID(wall)
		if err != nil {
			return 0, 0, err
		}
		owner, post = o, p
	}
	if owner == 0 || post == 0 {
		return 0, 0, errors.New("usage: wallfetch post -owner <id> -post <id> | -wall <owner>_<post>")
	}
	return owner, post, nil
}

// parseWallID splits the wall.getById form "<owner>_<post>".
func parseWallID(s string) (owner, post int64, err error) {
	o, p, ok := strings.Cut(strings.TrimPrefix(s, "wall"), "_")
	if !ok {
		return 0, 0, fmt.Errorf("bad wall id %q", s)
	}
	owner, err = strconv.ParseInt(o, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad wall id %q: %w", s, err)
	}
	post, err = strconv.ParseInt(p, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad wall id %q: %w", s, err)
	}
	return owner, post, nil
}
