package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"syscall"

	"github.com/tartampluch/go-lineage/internal/calendar"
	"github.com/tartampluch/go-lineage/internal/config"
	"github.com/tartampluch/go-lineage/internal/engine"
	"github.com/tartampluch/go-lineage/internal/harness"
	"github.com/tartampluch/go-lineage/internal/locale"
	"github.com/tartampluch/go-lineage/internal/server"
)

// cliOptions carries the parsed command-line flags.
type cliOptions struct {
	input    string
	output   string
	vcf      string
	url      string
	user     string
	pass     string
	calendar string
	lang     string
	serve    bool
	port     string
}

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
// os.Exit() does not run defers, so we must return an integer code first.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
// Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)

	opts := cliOptions{}
	flag.StringVar(&opts.input, config.FlagInput, "", config.FlagDescInput)
	flag.StringVar(&opts.output, config.FlagOutput, "", config.FlagDescOutput)
	flag.StringVar(&opts.vcf, config.FlagVCF, "", config.FlagDescVCF)
	flag.StringVar(&opts.url, config.FlagURL, "", config.FlagDescURL)
	flag.StringVar(&opts.user, config.FlagUser, "", config.FlagDescUser)
	flag.StringVar(&opts.pass, config.FlagPass, "", config.FlagDescPass)
	flag.StringVar(&opts.calendar, config.FlagCalendar, config.DefaultCalendar, config.FlagDescCalendar)
	flag.StringVar(&opts.lang, config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	flag.BoolVar(&opts.serve, config.FlagServe, false, config.FlagDescServe)
	flag.StringVar(&opts.port, config.FlagPort, config.DefaultPort, config.FlagDescPort)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// We configure structured logging (slog) early to capture startup issues.
	// Logs go to stderr: stdout is reserved for result records and feed data.
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	// Create a root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run dispatches between the two operating modes:
// export mode (-vcf or -url set) generates an anniversary feed,
// otherwise the process consumes operation records from the input stream.
func run(ctx context.Context, opts cliOptions) error {
	if opts.vcf != "" || opts.url != "" {
		return runExport(ctx, opts)
	}
	return runStream(ctx, opts)
}

// runStream reads JSONL operation records and writes one result per line.
func runStream(_ context.Context, opts cliOptions) error {
	in := os.Stdin
	if opts.input != "" && opts.input != config.StdinPath {
		f, err := os.Open(opts.input)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrOpenInput, err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	out := os.Stdout
	if opts.output != "" && opts.output != config.StdinPath {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrCreateOutput, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	runner := harness.NewRunner()
	if err := runner.Execute(in, out); err != nil {
		return fmt.Errorf("%s: %w", config.ErrHarnessRun, err)
	}

	slog.Info(config.MsgHarnessDone, config.LogKeyComponent, config.CompMain)
	return nil
}

// runExport generates the ICS anniversary feed from a vCard source and either
// serves it over HTTP or writes it out.
func runExport(ctx context.Context, opts cliOptions) error {
	target, err := calendar.ParseKind(opts.calendar)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrBadCalendar, err)
	}

	if !slices.Contains(config.SupportedLanguages, opts.lang) {
		return fmt.Errorf("%s: %q", config.ErrBadLanguage, opts.lang)
	}

	loc, err := locale.New(opts.lang)
	if err != nil {
		return err
	}

	gen := &engine.Generator{
		Clock:     engine.RealClock{},
		Fetcher:   engine.NewHTTPFetcher(),
		Converter: calendar.NewConverter(),
		Localizer: loc,
	}

	cfg := engine.ExportConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: opts.vcf,
		WebURL:    opts.url,
		WebUser:   opts.user,
		WebPass:   opts.pass,
		Target:    target,
	}
	if opts.url != "" {
		cfg.Mode = config.SourceModeWeb
	}

	icsData, _, _, err := gen.RunExport(ctx, cfg)
	if err != nil {
		return err
	}

	if opts.serve {
		srv := server.NewFeedServer(opts.port)
		srv.Update(icsData)
		return srv.Start(ctx)
	}

	if opts.output != "" && opts.output != config.StdinPath {
		return os.WriteFile(opts.output, icsData, config.FilePermUserRW)
	}

	_, err = os.Stdout.Write(icsData)
	return err
}

// printVersion outputs the build information to stdout and exits.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	// 1. Always write to Stderr (stdout carries program output).
	writers = append(writers, os.Stderr)

	// 2. Attempt to set up a file writer in the user's cache directory.
	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		// Use centralized permission constants for security.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
