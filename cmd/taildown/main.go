package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	taildown "github.com/vincitamore/taildown-sub000"
	"github.com/vincitamore/taildown-sub000/internal/cli"
	"github.com/vincitamore/taildown-sub000/internal/compile"
)

func main() {
	var inPath string
	var outPath string
	var title string
	var debug bool
	var standalone bool
	var noBackup bool
	flag.StringVar(&inPath, "in", "", "Input taildown file or directory")
	flag.StringVar(&outPath, "out", "", "Output HTML file (single file mode only, defaults to <in>.html)")
	flag.StringVar(&title, "title", "", "Page title for standalone output")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&standalone, "standalone", false, "Wrap output in a full HTML page")
	flag.BoolVar(&noBackup, "no-backup", false, "Do not back up existing output files")
	flag.Parse()

	if debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if inPath == "" && flag.NArg() > 0 {
		inPath = flag.Arg(0)
	}
	if inPath == "" {
		fmt.Println("Please provide an input file or directory with -in")
		os.Exit(1)
	}

	opts := compile.Options{
		Standalone: standalone,
		Title:      title,
		NoBackup:   noBackup,
	}

	info, err := os.Stat(inPath)
	if err != nil {
		fmt.Printf("Error accessing input: %v\n", err)
		os.Exit(1)
	}

	if info.IsDir() {
		results, err := cli.NewProcessor(opts).ProcessPath(inPath)
		if err != nil {
			fmt.Printf("Error compiling directory: %v\n", err)
			os.Exit(1)
		}
		for _, r := range results {
			fmt.Printf("Compiled %s to %s\n", r.Path, r.OutPath)
		}
		return
	}

	f, err := os.Open(inPath)
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	src := compile.Source{
		Content:  f,
		Metadata: taildown.MetaData{Source: inPath},
	}

	compiler := compile.New(opts)

	var written string
	if outPath != "" {
		written, err = compiler.CompileToPath(src, outPath)
	} else {
		written, err = compiler.Compile(src)
	}
	if err != nil {
		fmt.Printf("Error compiling document: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Compiled %s to %s\n", inPath, written)
}
