package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"
)

func (a *app) SetFlags() {
	a.SetDownloadFlags()
	a.SetGetFlags()
	a.SetFetchFlags()
	a.SetDemoFlags()
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) SetDownloadFlags() {
	a.fsDownload = a.newFlagSet("download")
	a.addDownloadFlags(a.fsDownload)
	a.addCommonFlags(a.fsDownload)
	a.fsDownload.Usage = func() {
		w := a.stderr
		fmt.Fprintln(w, "Command download: download all given URLs at the same time, with a progression bar for each of them")
		fmt.Fprintln(w)
		fmt.Fprintln(w, filepath.Base(os.Args[0]), "download [ options... ] URL...")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  example:  ", filepath.Base(os.Args[0]), "download -n 3 -d ~/Downloads https://example.com/a.mp4 https://example.com/b.mp4")
		fmt.Fprintln(w, "  Without URL, a set of sample files is downloaded.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  options:")
		a.fsDownload.PrintDefaults()
		fmt.Fprintln(w)
	}
}

func (a *app) SetGetFlags() {
	a.fsGet = a.newFlagSet("get")
	a.fsGet.StringVar(&a.cli.DefaultName, "default-name", "video.mp4", "File name used when the URL doesn't give one.")
	a.fsGet.BoolVar(&a.cli.Headless, "headless", false, "Headless mode. The progression bar is not displayed.")
	a.addCommonFlags(a.fsGet)
	a.fsGet.Usage = func() {
		w := a.stderr
		fmt.Fprintln(w, "Command get: download one URL with a progression bar")
		fmt.Fprintln(w)
		fmt.Fprintln(w, filepath.Base(os.Args[0]), "get [ options... ] URL")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  options:")
		a.fsGet.PrintDefaults()
		fmt.Fprintln(w)
	}
}

func (a *app) SetFetchFlags() {
	a.fsFetch = a.newFlagSet("fetch")
	a.addCommonFlags(a.fsFetch)
	a.fsFetch.Usage = func() {
		w := a.stderr
		fmt.Fprintln(w, "Command fetch: copy one URL into a file, without progression bar")
		fmt.Fprintln(w)
		fmt.Fprintln(w, filepath.Base(os.Args[0]), "fetch [ options... ] URL [ FILE ]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  options:")
		a.fsFetch.PrintDefaults()
		fmt.Fprintln(w)
	}
}

func (a *app) SetDemoFlags() {
	a.fsDemo = a.newFlagSet("demo")
	a.fsDemo.IntVar(&a.demo.Tasks, "tasks", defaultDemo.Tasks, "Number of simulated tasks.")
	a.fsDemo.IntVar(&a.demo.Steps, "steps", defaultDemo.Steps, "Number of steps of each task.")
	a.fsDemo.DurationVar(&a.demo.MinDelay, "min-delay", defaultDemo.MinDelay, "Shortest step duration.")
	a.fsDemo.DurationVar(&a.demo.MaxDelay, "max-delay", defaultDemo.MaxDelay, "Longest step duration.")
	a.fsDemo.IntVarP(&a.demo.MaxTasks, "max-tasks", "n", defaultDemo.MaxTasks, "Maximum concurrent tasks at a time.")
	a.fsDemo.BoolVar(&a.cli.Headless, "headless", false, "Headless mode. Progression bars are not displayed.")
	a.fsDemo.StringVarP(&a.cli.LogLevel, "log-level", "l", "ERROR", "Log level (INFO,TRACE,ERROR,DEBUG)")
	a.fsDemo.Usage = func() {
		w := a.stderr
		fmt.Fprintln(w, "Command demo: run simulated tasks to show the progression display")
		fmt.Fprintln(w)
		fmt.Fprintln(w, filepath.Base(os.Args[0]), "demo [ options... ]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  options:")
		a.fsDemo.PrintDefaults()
		fmt.Fprintln(w)
	}
}

func (a *app) Usage() {
	fmt.Fprintf(a.stderr, "Usage of %s (%s):\n\n", filepath.Base(os.Args[0]), version)
	a.fsDownload.Usage()
	a.fsGet.Usage()
	a.fsFetch.Usage()
	a.fsDemo.Usage()
	fmt.Fprintln(a.stderr, envDescription())
}
