package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/simulot/multidl/mylog"
	"github.com/simulot/multidl/pkg/models"
	"github.com/simulot/multidl/pkg/myhttp"
	"github.com/simulot/multidl/pkg/progress"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// The files downloaded when no location is given
var sampleLocations = []string{
	"https://file-examples-com.github.io/uploads/2017/11/file_example_WAV_10MG.wav",
	"https://file-examples-com.github.io/uploads/2017/11/file_example_OOG_2MG.ogg",
	"https://file-examples-com.github.io/uploads/2017/10/file_example_PNG_3MB.png",
	"https://file-examples-com.github.io/uploads/2017/10/file_example_JPG_1MB.jpg",
}

type app struct {
	// CLI flags
	cli        Config     // Values given on the command line
	demo       demoConfig // Flags of the demo command
	ConfigFile string     // Name of configuration file

	// State
	Config     Config // Effective configuration
	logger     *mylog.MyLog
	stdout     io.Writer
	stderr     io.Writer
	fsDownload *flag.FlagSet
	fsGet      *flag.FlagSet
	fsFetch    *flag.FlagSet
	fsDemo     *flag.FlagSet
}

func main() {
	// trap Ctrl+C and call cancel on the context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and gives the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout: stdout,
		stderr: stderr,
	}
	a.SetFlags()

	command := "help"
	if len(args) > 1 {
		command = args[1]
	}
	var fs *flag.FlagSet
	switch command {
	case "download":
		fs = a.fsDownload
	case "get":
		fs = a.fsGet
	case "fetch":
		fs = a.fsFetch
	case "demo":
		fs = a.fsDemo
	case "help", "-h", "--help":
		a.Usage()
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command %q\n\n", command)
		a.Usage()
		return 1
	}

	if err := fs.Parse(args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 1
	}

	cfg, err := a.loadConfig(fs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	a.Config = cfg

	closeLog, err := a.setLogger()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer closeLog()

	a.logger.Info().Printf("%s: %v, commit %v, built at %v", filepath.Base(args[0]), version, commit, date)
	a.logger.Info().Printf("Command line parameters: %v", args[1:])
	if a.logger.IsDebug() {
		a.logger.Debug().Printf("Configuration: %s", dumpConfig(a.Config))
	}

	switch command {
	case "download":
		err = a.Download(ctx, fs.Args())
	case "get":
		err = a.Get(ctx, fs.Args())
	case "fetch":
		err = a.Fetch(ctx, fs.Args())
	case "demo":
		err = a.Demo(ctx)
	}

	if err != nil {
		fmt.Fprintln(stderr, models.Describe(err))
		a.logger.Info().Printf("Program stopped with error")
		return 1
	}
	a.logger.Info().Printf("Program stopped")
	return 0
}

// setLogger builds the logger from the configuration
func (a *app) setLogger() (func(), error) {
	var fileLogger mylog.Logger
	closer := func() {}
	if len(a.Config.LogFile) > 0 {
		logFile, err := os.Create(a.Config.LogFile)
		if err != nil {
			return nil, fmt.Errorf("Can't create log file: %w", err)
		}
		fileLogger = log.New(logFile, "", log.LstdFlags)
		closer = func() {
			logFile.Sync()
			logFile.Close()
		}
	}
	l, err := mylog.NewLog(a.Config.LogLevel, log.New(a.stderr, "", log.LstdFlags), fileLogger)
	if err != nil {
		closer()
		return nil, err
	}
	a.logger = l
	return closer, nil
}

// client gives an HTTP client configured after the application settings
func (a *app) client() *myhttp.Client {
	opts := []func(c *myhttp.Client){
		myhttp.WithTimeout(a.Config.Timeout),
		myhttp.WithLogger(a.logger.Debug()),
	}
	if a.Config.UserAgent != "" {
		opts = append(opts, myhttp.WithUserAgent(a.Config.UserAgent))
	}
	return myhttp.NewClient(opts...)
}

// display gives the progression display for multiple tasks.
// The returned function must be called once the display is done.
func (a *app) display() (progress.Display, func()) {
	if a.Config.Headless {
		return progress.NewHeadless(log.New(a.stderr, "", log.LstdFlags), time.Second), func() {}
	}
	t := progress.NewTerminal(a.stdout)
	// Logs are printed above the bars while they are displayed
	previous := a.logger.SetConsole(log.New(t, "", log.LstdFlags))
	return t, func() {
		a.logger.SetConsole(previous)
	}
}
