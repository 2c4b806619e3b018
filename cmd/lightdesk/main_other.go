//go:build !(js && wasm)

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/blinkenxmas/lightdesk/internal/config"
	"github.com/blinkenxmas/lightdesk/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the host build: the controller itself only runs in the browser,
// but a config document can be checked before it is embedded in a page.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lightdesk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	check := fs.String("check", "", "Validate a .json or .yaml config file and print the effective settings")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *check == "" {
		fmt.Fprintf(stderr, "lightdesk %s runs in the browser; build it with GOOS=js GOARCH=wasm\n", version.Version)
		return 1
	}

	cfg, err := config.LoadFile(*check)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", *check, err)
		return 1
	}
	x, y := cfg.GetLabelOffset()
	w, h := cfg.GetStreamSize()
	fmt.Fprintf(stdout, "base_url          %q\n", cfg.GetBaseURL())
	fmt.Fprintf(stdout, "request_timeout   %v\n", cfg.GetRequestTimeout())
	fmt.Fprintf(stdout, "poll_interval     %v\n", cfg.GetPollInterval())
	fmt.Fprintf(stdout, "advisory_delay    %v\n", cfg.GetAdvisoryDelay())
	fmt.Fprintf(stdout, "marker_radius     %g\n", cfg.GetMarkerRadius())
	fmt.Fprintf(stdout, "vertex_radius     %g\n", cfg.GetVertexRadius())
	fmt.Fprintf(stdout, "label_offset      %g,%g\n", x, y)
	fmt.Fprintf(stdout, "stream_size       %dx%d\n", w, h)
	fmt.Fprintf(stdout, "placeholder_image %q\n", cfg.GetPlaceholderImage())
	fmt.Fprintf(stdout, "calibrated_url    %q\n", cfg.GetCalibratedURL())
	fmt.Fprintf(stdout, "stop_on_error     %v\n", cfg.GetStopOnError())
	return 0
}
