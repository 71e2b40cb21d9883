// Package main provides the heap CLI for sending server-side events and user
// properties from shell scripts and CI jobs.
//
//	heap track "Deploy Finished" ci-bot -p service=api -p duration_ms=5120
//	heap add-user-properties alice@example.com -p plan=pro
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	heap "github.com/jdziat/heap-go"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitRejected = 3
)

// Globals are the flags shared by every command.
type Globals struct {
	Config    string        `short:"c" help:"YAML configuration file." type:"path"`
	EnvFile   string        `name:"env-file" help:"Load HEAP_* variables from a dotenv file." type:"path"`
	AppID     string        `name:"app-id" help:"Heap application ID. Defaults to $HEAP_APP_ID."`
	UserAgent string        `name:"user-agent" help:"User-Agent header sent with requests."`
	BaseURL   string        `name:"base-url" help:"Heap API host." placeholder:"URL"`
	Stubbed   bool          `help:"Validate and answer locally without sending anything."`
	Timeout   time.Duration `help:"Request timeout." placeholder:"DURATION"`
	Verbose   bool          `short:"v" help:"Enable debug logging."`
}

// CLI is the root command.
type CLI struct {
	Globals

	Version kong.VersionFlag `name:"version" help:"Show version and exit."`

	Track             TrackCmd             `cmd:"" help:"Send a server-side event."`
	AddUserProperties AddUserPropertiesCmd `cmd:"" name:"add-user-properties" help:"Attach properties to a user identity."`
}

// exitCode is raised through panic by kong's exit hook so run can return it.
type exitCode int

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, executes the selected command and returns the process
// exit code.
func run(args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("heap"),
		kong.Description("Send server-side events and user properties to Heap."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": heap.Version},
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "heap: %v\n", err)
		return exitFailure
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	ctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return exitUsage
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	a := &app{
		globals: &cli.Globals,
		stdout:  stdout,
		logger:  slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}

	if err := ctx.Run(a); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitCodeFor(err)
	}
	return exitOK
}

// exitCodeFor maps an error to an exit code: usage for bad arguments,
// rejected for an API refusal and failure for everything else.
func exitCodeFor(err error) int {
	var heapErr heap.HeapError
	if errors.As(err, &heapErr) {
		switch heapErr.Code() {
		case heap.ErrCodeValidation:
			return exitUsage
		case heap.ErrCodeAPI:
			return exitRejected
		}
	}
	var propErr *propertyError
	if errors.As(err, &propErr) {
		return exitUsage
	}
	return exitFailure
}
