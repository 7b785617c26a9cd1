package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/scribble/internal/config"
	"github.com/example/scribble/internal/notify"
	"github.com/example/scribble/internal/preset"
	"github.com/example/scribble/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	configPath   string
	saveAlerts   bool
	copyAlerts   bool
	serveAlerts  bool
	themeName    string
	presetName   string
	historyLimit int
	activeTheme  *theme.Theme
	presets      *preset.Loader
	themes       *theme.Loader
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	path := loader.Path()
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:         flag.NewFlagSet("scribble", flag.ExitOnError),
		program:    "scribble",
		notifier:   notify.New(prefs),
		config:     cfg,
		configPath: path,
		presets:    preset.NewLoader(),
		themes:     theme.NewLoader(),
	}
	r.presets.Extra = cfg.Presets
	r.themes.Extra = cfg.Themes
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.serveAlerts, "notify-serve", false, "show a desktop notification when a drawing is shared on the network")
	r.fs.IntVar(&r.historyLimit, "history", cfg.HistoryLimit, "number of undo steps kept (0 for unlimited)")

	// Precedence: CLI > Env > Config > Default. The flags default to ""
	// so Run can tell whether they were given.
	r.fs.StringVar(&r.themeName, "theme", "", "window color theme (light, dark, a file, or a theme from the config)")
	r.fs.StringVar(&r.presetName, "preset", "", "style preset applied to new sessions")
	r.fs.Usage = usageFunc(r)
	return r
}

// pick returns the first non-empty of the flag value, the environment
// variable and the configured value.
func pick(flagValue, envKey, configured string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	return strings.TrimSpace(configured)
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.notifier.Enable(notify.EventSave, r.saveAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	r.notifier.Enable(notify.EventServe, r.serveAlerts)

	r.presetName = pick(r.presetName, "SCRIBBLE_PRESET", r.config.Preset)
	themeName := pick(r.themeName, "SCRIBBLE_THEME", r.config.Theme)
	t, err := r.themes.Load(themeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", themeName, err)
		t = theme.Default()
	}
	r.activeTheme = t

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "window":
		cmd, err = parseWindowCmd(subArgs, r)
	case "replay":
		cmd, err = parseReplayCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "browse":
		cmd, err = parseBrowseCmd(subArgs, r)
	case "tools":
		cmd, err = parseListCmd("tools", subArgs, r)
	case "presets":
		cmd, err = parseListCmd("presets", subArgs, r)
	case "themes":
		cmd, err = parseListCmd("themes", subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
