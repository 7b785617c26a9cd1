package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/scribble/internal/script"
)

type interactiveCmd struct {
	*root
	fs     *flag.FlagSet
	canvas canvasFlags
	output string
	execs  commandList
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	i := &interactiveCmd{root: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.Usage = usageFunc(i)
	i.canvas.register(fs)
	output := ""
	if r != nil && r.config != nil {
		output = r.config.Output
	}
	fs.StringVar(&i.output, "o", output, "path written by export without an argument")
	fs.Var(&i.execs, "e", "execute a command in immediate mode (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: i}
	}
	if err := i.canvas.validate(); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *interactiveCmd) runner() (*script.Runner, error) {
	sess, err := i.openSession(i.canvas)
	if err != nil {
		return nil, err
	}
	return &script.Runner{
		Session: sess,
		Presets: i.presets,
		Out:     i.stdout,
		Output:  i.output,
		Saved:   i.notifier.Save,
	}, nil
}

// executeLine runs one line and reports whether the session should end.
func (i *interactiveCmd) executeLine(r *script.Runner, line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch line {
	case "exit", "quit":
		return true, nil
	case "help":
		for _, u := range script.Usage() {
			fmt.Fprintln(i.stdout, "  "+u)
		}
		fmt.Fprintln(i.stdout, "  exit")
		return false, nil
	}
	return false, r.ExecLine(line)
}

func (i *interactiveCmd) Run() error {
	r, err := i.runner()
	if err != nil {
		return err
	}
	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := i.executeLine(r, line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(r, scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}
