package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/handiism/flags-downloader/internal/app"
	"github.com/handiism/flags-downloader/internal/config"
	"github.com/handiism/flags-downloader/internal/logging"
	"github.com/handiism/flags-downloader/internal/progress"
	"github.com/handiism/flags-downloader/internal/summary"
	"github.com/handiism/flags-downloader/internal/supervisor"
)

var errInterrupted = errors.New("interrupted")

type flags struct {
	config         string
	concurrency    int
	maxConcurrency int
	verbose        bool
	baseURL        string
	dest           string
	store          string
	timeout        float64
	countryNames   bool
	jpeg           bool
	resize         int
	rps            float64
	jsonLogs       bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "flags-dl [COUNTRY_CODE...]",
		Short: "Download country flag images concurrently",
		Long: `flags-dl downloads flag images for the given country codes.

With no arguments the 20 most populous countries are downloaded. At most
--concurrency requests are in flight at any time; missing flags and failed
requests are counted and reported without stopping the batch.

Examples:
  flags-dl                     # POP20 into ./downloaded
  flags-dl -v BR CN US         # three flags, one line per result
  flags-dl -c 50 --store mem:// $(cat codes.txt)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, &f)
			if err != nil {
				return err
			}
			return run(cmd, settings, &f, args)
		},
	}

	d := config.DefaultSettings()
	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "path to a JSON settings file")
	fs.IntVarP(&f.concurrency, "concurrency", "c", d.Concurrency, "maximum concurrent requests")
	fs.IntVarP(&f.maxConcurrency, "max-concurrency", "m", d.MaxConcurrency, "ceiling for --concurrency")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "print one line per result instead of a progress bar")
	fs.StringVarP(&f.baseURL, "base-url", "u", d.BaseURL, "flag server base URL")
	fs.StringVarP(&f.dest, "dest", "d", d.DestDir, "destination directory")
	fs.StringVar(&f.store, "store", "", "destination bucket URL (file://, mem://), overrides --dest")
	fs.Float64VarP(&f.timeout, "timeout", "t", d.RequestTimeout, "per-request timeout in seconds")
	fs.BoolVar(&f.countryNames, "country-names", false, "name files after the country instead of the code")
	fs.BoolVar(&f.jpeg, "jpeg", false, "convert flags to JPEG before storing")
	fs.IntVar(&f.resize, "resize", 0, "scale flags to fit this many pixels (implies --jpeg)")
	fs.Float64Var(&f.rps, "rps", 0, "client-side request pacing, requests per second (0 = unlimited)")
	fs.BoolVar(&f.jsonLogs, "json-logs", false, "write logs as JSON")

	return cmd
}

// loadSettings reads the settings file and applies the flags the user set.
func loadSettings(cmd *cobra.Command, f *flags) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if f.config != "" {
		var err error
		if settings, err = config.LoadExisting(f.config); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("concurrency") {
		settings.Concurrency = f.concurrency
	}
	if changed("max-concurrency") {
		settings.MaxConcurrency = f.maxConcurrency
	}
	if changed("base-url") {
		settings.BaseURL = f.baseURL
	}
	if changed("dest") {
		settings.DestDir = f.dest
	}
	if changed("store") {
		settings.StoreURL = f.store
	}
	if changed("timeout") {
		settings.RequestTimeout = f.timeout
	}
	if changed("country-names") {
		settings.CountryNames = f.countryNames
	}
	if changed("jpeg") {
		settings.ConvertToJPEG = f.jpeg
	}
	if changed("resize") {
		settings.ResizeMax = f.resize
	}
	if changed("rps") {
		settings.RequestsPerSecond = f.rps
	}

	return settings, settings.Validate()
}

func run(cmd *cobra.Command, settings *config.Settings, f *flags, args []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	logger := logging.New(logging.Options{Verbose: f.verbose, JSON: f.jsonLogs, Output: errOut})
	defer func() { _ = logger.Sync() }()

	keys := app.Keys(args)
	hooks := app.Hooks{
		Verbose: f.verbose,
		OnEvent: printEvent(out),
		Logger:  logger,
	}

	var bar *progress.Bar
	if !f.verbose {
		bar = progress.NewBar(errOut, "Downloading")
		hooks.Reporter = bar
	}

	dest := settings.DestDir
	if settings.StoreURL != "" {
		dest = settings.StoreURL
	}
	logger.Info("starting",
		zap.Int("keys", len(keys)),
		zap.Int("concurrency", settings.EffectiveConcurrency(len(keys))),
		zap.String("dest", dest),
	)

	res, err := app.Run(cmd.Context(), settings, keys, hooks)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	if err := summary.Render(out, res.Tally, res.Elapsed); err != nil {
		logger.Warn("rendering summary", zap.Error(err))
	}

	if res.Cancelled {
		color.New(color.FgYellow).Fprintln(errOut, "*** Interrupted, cancelled pending downloads.")
		return errInterrupted
	}
	return nil
}

// printEvent renders supervisor events with a coloured prefix.
func printEvent(w io.Writer) func(supervisor.ProgressEvent) {
	var (
		red    = color.New(color.FgRed)
		yellow = color.New(color.FgYellow)
		green  = color.New(color.FgGreen)
		faint  = color.New(color.Faint)
	)

	return func(e supervisor.ProgressEvent) {
		switch e.Level {
		case supervisor.LevelError:
			red.Fprintln(w, e.Message)
		case supervisor.LevelWarning:
			yellow.Fprintln(w, e.Message)
		case supervisor.LevelSuccess:
			green.Fprintln(w, e.Message)
		case supervisor.LevelVerbose:
			faint.Fprintln(w, e.Message)
		default:
			fmt.Fprintln(w, e.Message)
		}
	}
}

