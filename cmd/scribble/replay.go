package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/example/scribble/internal/script"
)

// watchDebounce collapses the burst of events editors produce on save.
const watchDebounce = 150 * time.Millisecond

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

type replayCmd struct {
	*root
	fs     *flag.FlagSet
	canvas canvasFlags
	output string
	execs  commandList
	watch  bool
	quiet  bool
	stdin  io.Reader
	stdout io.Writer
}

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	c := &replayCmd{root: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	c.canvas.register(fs)
	output := ""
	if r != nil && r.config != nil {
		output = r.config.Output
	}
	fs.StringVar(&c.output, "o", output, "path written by export commands without an argument")
	fs.Var(&c.execs, "e", "run a command before the script (may be specified multiple times)")
	fs.BoolVar(&c.watch, "watch", false, "replay the script again every time the file changes")
	fs.BoolVar(&c.quiet, "q", false, "do not print status output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: c}
	}
	if c.watch && c.script() == "" {
		return nil, errors.New("-watch needs a script file")
	}
	if err := c.canvas.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// script returns the script path, or "" when the script is read from
// stdin or only -e commands are given.
func (c *replayCmd) script() string {
	name := c.fs.Arg(0)
	if name == "-" {
		return ""
	}
	return name
}

func (c *replayCmd) Run() error {
	if !c.watch {
		return c.replay()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return c.watchScript(ctx)
}

// replay runs the -e commands and then the script against a fresh
// session.
func (c *replayCmd) replay() error {
	sess, err := c.openSession(c.canvas)
	if err != nil {
		return err
	}
	out := c.stdout
	if c.quiet {
		out = io.Discard
	}
	runner := &script.Runner{
		Session: sess,
		Presets: c.presets,
		Out:     out,
		Output:  c.output,
		Saved:   c.notifier.Save,
	}
	for i, line := range c.execs {
		if err := runner.ExecLine(line); err != nil {
			return fmt.Errorf("-e #%d: %w", i+1, err)
		}
	}
	switch name := c.script(); {
	case name != "":
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		if err := runner.RunReader(f); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	case c.fs.NArg() == 1 || len(c.execs) == 0:
		if err := runner.RunReader(c.stdin); err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
	}
	return nil
}

// watchScript replays the script once and then again after every write
// to it, until ctx is cancelled. Replay failures are logged, not fatal.
func (c *replayCmd) watchScript(ctx context.Context) error {
	path, err := filepath.Abs(c.script())
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()
	// Editors often replace the file, so watch the directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	run := func() {
		if err := c.replay(); err != nil {
			log.Printf("replay failed: %v", err)
		}
	}
	run()

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		case <-timer.C:
			run()
		}
	}
}
