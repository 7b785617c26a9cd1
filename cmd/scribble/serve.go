package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/scribble/internal/remote"
)

const shutdownTimeout = 5 * time.Second

type serveCmd struct {
	*root
	fs        *flag.FlagSet
	canvas    canvasFlags
	addr      string
	advertise bool
	instance  string
	anyOrigin bool
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	s := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	s.canvas.register(fs)
	fs.StringVar(&s.addr, "addr", r.config.Serve.Addr, "listen address")
	fs.BoolVar(&s.advertise, "advertise", r.config.Serve.Advertise, "announce the server with mDNS")
	fs.StringVar(&s.instance, "name", r.config.Serve.Instance, "mDNS instance name (default host name)")
	fs.BoolVar(&s.anyOrigin, "any-origin", false, "accept browser connections from pages on any origin")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: s}
	}
	if err := s.canvas.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *serveCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.serve(ctx)
}

func (s *serveCmd) serve(ctx context.Context) error {
	sess, err := s.openSession(s.canvas)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	addr := ln.Addr().String()

	var opts []remote.Option
	if s.anyOrigin {
		opts = append(opts, remote.WithOriginCheck(func(*http.Request) bool { return true }))
	}
	rs := remote.NewServer(sess, opts...)
	srv := &http.Server{Handler: rs.Handler(), ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("serving on http://%s (websocket /ws)", addr)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		rs.Close()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if s.advertise {
		_, portStr, _ := net.SplitHostPort(addr)
		port, _ := strconv.Atoi(portStr)
		m, err := remote.Advertise(s.instance, port)
		if err != nil {
			log.Printf("mDNS disabled: %v", err)
		} else {
			g.Go(func() error {
				<-ctx.Done()
				return m.Shutdown()
			})
		}
	}
	s.notifier.Serve(addr)
	return g.Wait()
}

type browseCmd struct {
	*root
	fs *flag.FlagSet
}

func parseBrowseCmd(args []string, r *root) (*browseCmd, error) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	b := &browseCmd{root: r, fs: fs}
	fs.Usage = usageFunc(b)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *browseCmd) Run() error {
	seen := make(map[string]bool)
	err := remote.Browse(func(addr string) {
		if seen[addr] {
			return
		}
		seen[addr] = true
		fmt.Printf("ws://%s/ws\n", addr)
	})
	if err != nil {
		return fmt.Errorf("mDNS lookup failed: %w", err)
	}
	if len(seen) == 0 {
		fmt.Fprintln(os.Stderr, "no scribble servers found")
	}
	return nil
}
