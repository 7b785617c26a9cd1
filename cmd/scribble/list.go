package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/scribble/internal/export"
	"github.com/example/scribble/internal/paint"
	"github.com/example/scribble/internal/session"
)

// listCmd prints the tools, presets or themes scribble knows about.
type listCmd struct {
	*root
	fs      *flag.FlagSet
	what    string
	verbose bool
	stdout  io.Writer
}

func parseListCmd(what string, args []string, r *root) (*listCmd, error) {
	fs := flag.NewFlagSet(what, flag.ExitOnError)
	cmd := &listCmd{root: r, fs: fs, what: what, stdout: os.Stdout}
	fs.Usage = usageFunc(cmd)
	fs.BoolVar(&cmd.verbose, "v", false, "show the contents of each entry")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *listCmd) Run() error {
	switch c.what {
	case "tools":
		return c.listTools()
	case "presets":
		return c.listPresets()
	case "themes":
		return c.listThemes()
	}
	return fmt.Errorf("unknown listing %q", c.what)
}

func (c *listCmd) listTools() error {
	fmt.Fprintln(c.stdout, "tools:")
	for _, t := range paint.Tools() {
		fmt.Fprintf(c.stdout, "  %s\n", t)
	}
	if c.verbose {
		fmt.Fprintln(c.stdout, "controls:")
		for _, f := range session.Controls() {
			fmt.Fprintf(c.stdout, "  %s\n", f)
		}
		fmt.Fprintln(c.stdout, "export formats:")
		for _, f := range export.Formats() {
			fmt.Fprintf(c.stdout, "  %s\n", f)
		}
	}
	return nil
}

func (c *listCmd) listPresets() error {
	names := c.presets.Names()
	if len(names) == 0 {
		fmt.Fprintln(c.stdout, "no presets available")
		return nil
	}
	for _, name := range names {
		marker := " "
		if name == c.presetName {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %s\n", marker, name)
		if !c.verbose {
			continue
		}
		p, err := c.presets.Load(name)
		if err != nil {
			fmt.Fprintf(c.stdout, "    error: %v\n", err)
			continue
		}
		fmt.Fprint(c.stdout, indent(p.String()))
	}
	return nil
}

func (c *listCmd) listThemes() error {
	for _, name := range c.themes.Names() {
		fmt.Fprintf(c.stdout, "  %s\n", name)
		if !c.verbose {
			continue
		}
		t, err := c.themes.Load(name)
		if err != nil {
			fmt.Fprintf(c.stdout, "    error: %v\n", err)
			continue
		}
		fmt.Fprint(c.stdout, indent(t.String()))
	}
	return nil
}

func indent(s string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		sb.WriteString("    ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
