package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/inhies/go-bytesize"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v2"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/dysl"
	"github.com/npillmayer/dysl/mem"
	"github.com/npillmayer/dysl/runtime"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

// main() is the command-line front end for the dysl runtime. It brings an
// interpreter instance up, will eventually hand a script to the evaluator,
// and tears the instance down again. Exit code 0 on help/version/success,
// 1 on any argument or script error.
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	var scriptPath, configPath string
	i := 0
argloop:
	for ; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-h" || arg == "--help":
			usage()
			return 0
		case arg == "-v" || arg == "--version":
			version()
			return 0
		case arg == "-c" || arg == "--config":
			i++
			if i >= len(args) {
				pterm.Error.Println("Option --config requires a file argument")
				usage()
				return 1
			}
			configPath = args[i]
		case strings.HasPrefix(arg, "-"):
			pterm.Error.Printf("Unknown option: %s\n", arg)
			usage()
			return 1
		default:
			scriptPath = arg
			break argloop
		}
	}
	if scriptPath == "" {
		pterm.Error.Println("No script file provided.")
		usage()
		return 1
	}
	opts, err := loadOptions(configPath)
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		pterm.Error.Printf("Cannot read script: %s\n", err.Error())
		return 1
	}
	rt, err := runtime.NewRuntime(mem.Standard(), opts)
	if err != nil {
		pterm.Error.Printf("Failed to create dysl runtime: %s\n", err.Error())
		return 1
	}
	interp := runtime.NewInterp(rt)
	// TODO hand the script to the front end once parser and evaluator land
	pterm.Info.Printf("Loaded %s (%v), stack depth %d\n", scriptPath,
		bytesize.New(float64(len(script))), interp.Depth())
	pterm.Info.Println(rt.GC.Stats().String())
	rt.Destroy()
	return 0
}

// loadOptions reads runtime options from a YAML config file, if given.
func loadOptions(path string) (runtime.Options, error) {
	var opts runtime.Options
	if path == "" {
		return opts, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("cannot read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("cannot parse config: %w", err)
	}
	return opts, nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func usage() {
	fmt.Println("Usage: dysl [options] [script]")
	fmt.Println("Options:")
	fmt.Println("  -h, --help           Show this help message and exit")
	fmt.Println("  -v, --version        Show version information and exit")
	fmt.Println("  -c, --config <file>  Read runtime options from a YAML file")
}

func version() {
	fmt.Printf("dysl version %s\n", dysl.VersionString)
}
