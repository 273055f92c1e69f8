package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"unicode"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Upload(ctx context.Context, args []string) error
	Info(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Endpoint(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
}

const helpText = "Available commands: upload <path>, info <file>, download <file>, delete <file>, (l)ist, endpoint [url], reset, exit\n" +
	"A <file> is a list position (2), a service id (#17) or a display text."

// runREPL reads commands from in and dispatches them to a until input ends
// or the user types "exit" or "quit". An empty prompt string suppresses the
// prompt. Command errors are printed and the loop goes on; remote failures
// never end the session.
func runREPL(ctx context.Context, a execIface, promptFn func() string, in *bufio.Reader) {
	commands := map[string]func(context.Context, []string) error{
		"upload":   a.Upload,
		"u":        a.Upload,
		"info":     a.Info,
		"download": a.Download,
		"get":      a.Download,
		"delete":   a.Delete,
		"rm":       a.Delete,
		"list":     a.List,
		"l":        a.List,
		"endpoint": a.Endpoint,
		"reset":    a.Reset,
	}

	for {
		if p := promptFn(); p != "" {
			fmt.Print(p)
		}
		line, err := readLine(in)
		if err != nil {
			return
		}
		if line == "" {
			continue
		}
		cmd, args := splitCommand(line)

		switch cmd {
		case "help":
			printlnFn(helpText)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		run, ok := commands[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := run(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

// splitCommand separates the command word from the rest of line. The rest
// is kept verbatim as a single argument so inner spacing of paths and display
// texts survives.
func splitCommand(line string) (string, []string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, nil
	}
	rest := strings.TrimSpace(line[i:])
	if rest == "" {
		return line[:i], nil
	}
	return line[:i], []string{rest}
}

func (a *App) getStatus() string {
	host := a.endpoint
	if u, err := url.Parse(a.endpoint); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("fs (%s, %d files)> ", host, a.files.Count())
}

// Root prints the restored file list and runs the REPL on the app's reader.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to fileshare (type 'help' for commands)")
	a.files.Notify()

	promptFn := func() string { return "" }
	if a.reader == nil {
		a.reader = bufio.NewReader(os.Stdin)
	}
	if interactive() {
		promptFn = a.getStatus
	}

	runREPL(ctx, a, promptFn, a.reader)
}
