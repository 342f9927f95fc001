// Package main is the entry point for the podforge installer.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dmcrae/podforge/internal/browse"
	"github.com/dmcrae/podforge/internal/installer"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ManifestPath string
	Sandbox      string
	JSON         bool
	Browse       bool
	Watch        bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.Watch {
		return runWatch(opts)
	}

	res, err := runInstall(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.Browse {
		ui, err := browse.New(res.Project)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
			return 1
		}
		if err := ui.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	return 0
}

// runInstall performs one install and prints its report.
func runInstall(opts options) (*installer.Result, error) {
	var instOpts []installer.Option
	if opts.Sandbox != "" {
		instOpts = append(instOpts, installer.WithSandbox(opts.Sandbox))
	}

	res, err := installer.New(opts.ManifestPath, instOpts...).Run()
	if err != nil {
		return nil, err
	}

	if opts.JSON {
		out, err := json.MarshalIndent(res.Report, "", "  ")
		if err != nil {
			return nil, err
		}
		fmt.Println(string(out))
		return res, nil
	}

	printReport(res.Report)
	return res, nil
}

func printReport(report installer.Report) {
	fmt.Printf("Installed %d pods into %s\n", len(report.Pods), report.Sandbox)
	for _, pod := range report.Pods {
		marker := ""
		if pod.Development {
			marker = " (development)"
		}
		fmt.Printf("  %s%s: %d sources, %d resources, %d frameworks, %d support files\n",
			pod.Name, marker, pod.Sources, pod.Resources, pod.Frameworks, pod.SupportFiles)
	}
	fmt.Printf("Configurations: %s\n", strings.Join(report.Configurations, ", "))
	fmt.Printf("Project: %d groups, %d file references, %d variant groups\n",
		report.Stats.Groups, report.Stats.FileReferences, report.Stats.VariantGroups)
	if report.HookRan {
		fmt.Println("Post-install hook ran")
	}
}

// runWatch installs once, then reinstalls whenever the manifest or the
// sandbox changes.
func runWatch(opts options) int {
	res, err := runInstall(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	w, err := installer.NewWatcher(installer.DefaultDebounce)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer w.Close()

	if err := w.Add(opts.ManifestPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := w.AddRecursive(res.Report.Sandbox); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Watching for changes (Ctrl-C to stop)")
	for {
		select {
		case path, ok := <-w.Changes():
			if !ok {
				return 0
			}
			fmt.Printf("Change detected: %s\n", path)
			if _, err := runInstall(opts); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		case err := <-w.Errors():
			if err != nil {
				fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
			}
		case <-signals:
			return 0
		}
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ManifestPath, "manifest", "Podfile.toml", "Path to the install manifest")
	flag.StringVar(&opts.ManifestPath, "m", "Podfile.toml", "Path to the install manifest (shorthand)")
	flag.StringVar(&opts.Sandbox, "sandbox", "", "Override the sandbox directory")
	flag.BoolVar(&opts.JSON, "json", false, "Print the install report as JSON")
	flag.BoolVar(&opts.Browse, "browse", false, "Browse the project tree after installing")
	flag.BoolVar(&opts.Watch, "watch", false, "Reinstall when the manifest or sandbox changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "podforge - builds Xcode Pods projects from a TOML manifest\n\n")
		fmt.Fprintf(os.Stderr, "Usage: podforge [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  podforge                       Install using ./Podfile.toml\n")
		fmt.Fprintf(os.Stderr, "  podforge -m app/Podfile.toml   Install from a specific manifest\n")
		fmt.Fprintf(os.Stderr, "  podforge -json                 Print the install report as JSON\n")
		fmt.Fprintf(os.Stderr, "  podforge -browse               Explore the resulting project tree\n")
		fmt.Fprintf(os.Stderr, "  podforge -watch                Reinstall on changes\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("podforge %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.Watch && opts.Browse {
		fmt.Fprintln(os.Stderr, "Error: -watch and -browse cannot be combined")
		os.Exit(1)
	}

	return opts
}
