package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"text/template"

	"github.com/example/scribble/internal/script"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
		"commands": script.Usage,
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	if err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of); err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func (r *root) Template() string { return "root.txt" }

func (w *windowCmd) FlagSet() *flag.FlagSet { return w.fs }
func (w *windowCmd) Template() string       { return "window.txt" }

func (c *replayCmd) FlagSet() *flag.FlagSet { return c.fs }
func (c *replayCmd) Template() string       { return "replay.txt" }

func (i *interactiveCmd) FlagSet() *flag.FlagSet { return i.fs }
func (i *interactiveCmd) Template() string       { return "interactive.txt" }

func (s *serveCmd) FlagSet() *flag.FlagSet { return s.fs }
func (s *serveCmd) Template() string       { return "serve.txt" }

func (b *browseCmd) FlagSet() *flag.FlagSet { return b.fs }
func (b *browseCmd) Template() string       { return "browse.txt" }

func (c *listCmd) FlagSet() *flag.FlagSet { return c.fs }
func (c *listCmd) Template() string       { return "list.txt" }

func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }
func (c *configCmd) Template() string       { return "config.txt" }

func (v *versionCmd) Program() string        { return v.r.Program() }
func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }
func (v *versionCmd) Template() string       { return "version.txt" }
