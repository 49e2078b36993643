package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"

	"github.com/OlivierCrt/Projet-groupe4/internal/config"
	"github.com/OlivierCrt/Projet-groupe4/internal/detection"
	"github.com/OlivierCrt/Projet-groupe4/internal/imaging"
	"github.com/OlivierCrt/Projet-groupe4/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol and reports)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "marker-detect %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			printUsage(stdout)
			return 0
		}
	}

	command := "serve"
	if len(args) > 0 && (args[0] == "serve" || args[0] == "detect") {
		command = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", os.Getenv(config.EnvConfigPath), "Configuration file path (.json)")
	asJSON := fs.Bool("json", false, "Print the detect report as JSON")
	dumpDir := fs.String("dump", "", "Directory for mask dumps (overrides dump_dir)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Empty()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if *dumpDir != "" {
		cfg.DumpDir = dumpDir
	}

	if os.Getenv("MARKER_LOG_LEVEL") == "debug" {
		log.Printf("marker-detect v%s (built %s, commit %s), mode %s", Version, BuildTime, GitCommit, command)
	}

	switch command {
	case "detect":
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "Usage: marker-detect detect [options] <image|->")
			return 2
		}
		if err := detect(fs.Arg(0), stdin, cfg, *asJSON, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	default:
		srv := server.New(cfg)
		if err := srv.Run(); err != nil {
			log.Printf("Server error: %v", err)
			return 1
		}
		return 0
	}
}

// detect runs one detection pass on path and prints the result. A path of
// "-" reads a text matrix from stdin. Dump failures are logged and do not
// fail the run.
func detect(path string, stdin io.Reader, cfg *config.Config, asJSON bool, w io.Writer) error {
	detCfg, err := cfg.Detection()
	if err != nil {
		return err
	}
	pipeline, err := detection.NewPipeline(detCfg)
	if err != nil {
		return err
	}

	img, err := loadFrame(path, stdin)
	if err != nil {
		return err
	}
	prepared, err := imaging.Prepare(img, cfg.Prepare())
	if err != nil {
		return err
	}

	res := pipeline.Run(imaging.FromImage(prepared))

	if dir := cfg.GetDumpDir(); dir != "" {
		dump, err := pipeline.Dump(dir, res, prepared)
		if err != nil {
			log.Printf("dump: %v", err)
		}
		for _, f := range dump.Files {
			log.Printf("wrote %s", f)
		}
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Report)
	}
	printReport(w, res.Report)
	return nil
}

func loadFrame(path string, stdin io.Reader) (image.Image, error) {
	if path != "-" {
		return imaging.NewImageCache().Load(path)
	}
	m, err := imaging.ReadTextMatrix(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text matrix from stdin: %w", err)
	}
	return m.ToImage(), nil
}

func printReport(w io.Writer, r detection.Report) {
	if !r.AnyDetected {
		fmt.Fprintln(w, "no object detected")
	}
	for _, d := range r.Detections {
		switch {
		case d.Detected:
			fmt.Fprintf(w, "%-6s centroid=(%d,%d) radius=%d pixels=%d\n",
				d.Class, d.Centroid.X, d.Centroid.Y, *d.Radius, d.PixelCount)
		case d.Error != "":
			fmt.Fprintf(w, "%-6s error: %s\n", d.Class, d.Error)
		}
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "marker-detect - colored marker detection")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  marker-detect [serve] [options]          Run the MCP server on stdin/stdout")
	fmt.Fprintln(w, "  marker-detect detect [options] <image>   Detect markers in one image")
	fmt.Fprintln(w, "  marker-detect detect [options] -         Read a text matrix frame from stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --config <file>  Configuration file (.json)")
	fmt.Fprintln(w, "  --dump <dir>     Write mask dumps and overlay.png to dir")
	fmt.Fprintln(w, "  --json           Print the detect report as JSON")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  MARKER_CONFIG=<file>       Configuration file when --config is absent")
	fmt.Fprintln(w, "  MARKER_LOG_LEVEL=debug     Enable debug logging")
}
