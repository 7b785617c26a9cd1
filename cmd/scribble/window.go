package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/example/scribble/internal/appstate"
	"github.com/example/scribble/internal/preset"
	"github.com/example/scribble/internal/remote"
)

type windowCmd struct {
	*root
	fs     *flag.FlagSet
	canvas canvasFlags
	output string
	listen string
}

func parseWindowCmd(args []string, r *root) (*windowCmd, error) {
	fs := flag.NewFlagSet("window", flag.ExitOnError)
	w := &windowCmd{root: r, fs: fs}
	fs.Usage = usageFunc(w)
	w.canvas.register(fs)
	fs.StringVar(&w.output, "o", r.config.Output, "file written by Ctrl+S")
	fs.StringVar(&w.listen, "listen", "", "also accept remote control connections on this address")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: w}
	}
	if err := w.canvas.validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// toolbarPresets loads every preset the loader knows about. Presets that
// fail to parse are skipped with a warning.
func (r *root) toolbarPresets() []*preset.Preset {
	var out []*preset.Preset
	for _, name := range r.presets.Names() {
		p, err := r.presets.Load(name)
		if err != nil {
			log.Printf("skipping preset %s: %v", name, err)
			continue
		}
		out = append(out, p)
	}
	return out
}

func (w *windowCmd) Run() error {
	sess, err := w.openSession(w.canvas)
	if err != nil {
		return err
	}
	title := "Scribble"
	if w.canvas.open != "" {
		title = fmt.Sprintf("Scribble - %s", w.canvas.open)
	}

	var srv *http.Server
	if w.listen != "" {
		rs := remote.NewServer(sess)
		defer rs.Close()
		srv = &http.Server{Addr: w.listen, Handler: rs.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("remote control stopped: %v", err)
			}
		}()
		log.Printf("remote control listening on %s", w.listen)
		w.notifier.Serve(w.listen)
	}

	st := appstate.New(sess,
		appstate.WithTitle(title),
		appstate.WithOutput(w.output),
		appstate.WithTheme(w.activeTheme),
		appstate.WithPresets(w.toolbarPresets()),
		appstate.WithNotifier(w.notifier),
		appstate.WithOnClose(func() {
			if srv != nil {
				_ = srv.Shutdown(context.Background())
			}
		}),
	)
	st.Run()
	return nil
}
