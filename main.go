package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/df07/go-ppm-raytracer/pkg/core"
	"github.com/df07/go-ppm-raytracer/pkg/imageio"
	"github.com/df07/go-ppm-raytracer/pkg/renderer"
	"github.com/df07/go-ppm-raytracer/pkg/scene"
)

const scenesDir = "scenes"

// options holds the parsed command line
type options struct {
	sceneType   string
	configPath  string
	format      string
	outputPath  string
	comparePath string
	quiet       bool
	help        bool
	list        bool

	width, spp, depth, workers int
	aspect                     float64
	seed                       int64

	// set records which flags were given explicitly
	set map[string]bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// newFlagSet binds every command line flag to opts
func newFlagSet(opts *options, output io.Writer) *flag.FlagSet {
	sampling := renderer.DefaultSamplingConfig()
	camera := renderer.DefaultCameraConfig()

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.sceneType, "scene", "default", "Built-in scene: 'default', 'sphere' or 'plane'")
	fs.StringVar(&opts.configPath, "config", "", "Load the scene from a JSON file instead of a built-in scene")
	fs.StringVar(&opts.format, "format", "ppm", "Output format: 'ppm' or 'png'")
	fs.StringVar(&opts.outputPath, "o", "", "Output file (default: standard output)")
	fs.StringVar(&opts.comparePath, "compare", "", "Reference image (PPM, PNG or JPEG) to compare the render against")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress progress output")
	fs.BoolVar(&opts.help, "help", false, "Show help information")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.IntVar(&opts.width, "width", camera.Width, "Image width in pixels")
	fs.Float64Var(&opts.aspect, "aspect", camera.AspectRatio, "Aspect ratio (width / height)")
	fs.IntVar(&opts.spp, "spp", sampling.SamplesPerPixel, "Samples per pixel")
	fs.IntVar(&opts.depth, "depth", sampling.MaxDepth, "Maximum ray bounce depth")
	fs.IntVar(&opts.workers, "workers", sampling.NumWorkers, "Number of parallel workers (0 = CPU count)")
	fs.Int64Var(&opts.seed, "seed", sampling.Seed, "Random seed")
	return fs
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}
	fs := newFlagSet(opts, stderr)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.help {
		printHelp(stdout)
		return 0
	}
	if opts.list {
		if err := listScenes(stdout, scenesDir); err != nil {
			fmt.Fprintf(stderr, "Error listing scenes: %v\n", err)
			return 1
		}
		return 0
	}

	var logger core.Logger = renderer.NewDefaultLogger(stderr)
	if opts.quiet {
		logger = renderer.NewNopLogger()
	}

	selectedScene, err := createScene(opts.sceneType, opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	applyOverrides(selectedScene, opts)

	raytracer, err := selectedScene.NewRaytracer(logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Validate the format before creating the output file
	if _, err := newImageWriter(opts.format, io.Discard); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	var reference image.Image
	if opts.comparePath != "" {
		if reference, err = loadReference(opts.comparePath, raytracer.Camera()); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	out, closeOut, err := openOutput(opts.outputPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	writer, _ := newImageWriter(opts.format, out)

	var rendered *imageio.ImageBuffer
	if reference != nil {
		rendered = imageio.NewImageBuffer()
		writer = imageio.MultiWriter(writer, rendered)
	}

	logger.Printf("Using %s scene...\n", selectedScene.Name)
	stats, err := raytracer.Render(ctx, writer)
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(stderr, "\nError rendering: %v\n", err)
		return 1
	}

	logger.Printf("Samples per pixel: %.1f, %d pixels, %d workers\n",
		stats.AverageSamples, stats.TotalPixels, stats.NumWorkers)
	if opts.outputPath != "" {
		logger.Printf("Render saved as %s\n", opts.outputPath)
	}

	if reference != nil {
		diff, err := imageio.Compare(rendered.Image(), reference)
		if err != nil {
			fmt.Fprintf(stderr, "Error comparing: %v\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "Compared with %s: %d of %d pixels differ, max channel delta %d, mean delta %.3f\n",
			opts.comparePath, diff.DifferingPixels, diff.TotalPixels, diff.MaxChannelDelta, diff.MeanAbsDelta)
	}
	return 0
}

// loadReference loads the image to compare against and checks that it
// matches the camera's resolution, so a mismatch fails before rendering
func loadReference(path string, camera *renderer.Camera) (image.Image, error) {
	img, err := imageio.LoadImage(path)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() != camera.Width() || b.Dy() != camera.Height() {
		return nil, fmt.Errorf("%w: reference %s is %dx%d, render is %dx%d",
			imageio.ErrSizeMismatch, path, b.Dx(), b.Dy(), camera.Width(), camera.Height())
	}
	return img, nil
}

// createScene loads the JSON scene at configPath if given, otherwise the
// built-in scene named sceneType
func createScene(sceneType, configPath string) (*scene.Scene, error) {
	if configPath != "" {
		return scene.Load(configPath)
	}
	return scene.NewBuiltinScene(sceneType)
}

// applyOverrides copies explicitly given flags over the scene's own settings
func applyOverrides(s *scene.Scene, opts *options) {
	if opts.set["width"] {
		s.Camera.Width = opts.width
	}
	if opts.set["aspect"] {
		s.Camera.AspectRatio = opts.aspect
	}
	if opts.set["spp"] {
		s.Sampling.SamplesPerPixel = opts.spp
	}
	if opts.set["depth"] {
		s.Sampling.MaxDepth = opts.depth
	}
	if opts.set["seed"] {
		s.Sampling.Seed = opts.seed
	}
	// Worker count is a property of the machine, not the scene
	s.Sampling.NumWorkers = opts.workers
}

// newImageWriter returns the image writer for format on top of w
func newImageWriter(format string, w io.Writer) (renderer.ImageWriter, error) {
	switch strings.ToLower(format) {
	case "ppm":
		return imageio.NewPPMWriter(w), nil
	case "png":
		return imageio.NewPNGWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want 'ppm' or 'png')", format)
	}
}

// openOutput opens path for writing, or returns stdout when path is empty
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return file, file.Close, nil
}

func listScenes(w io.Writer, dir string) error {
	fmt.Fprintln(w, "Built-in scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Fprintf(w, "  %-8s - %s\n", info.ID, info.Description)
	}

	jsonScenes, err := scene.ListJSONScenes(dir)
	if err != nil {
		return err
	}
	if len(jsonScenes) > 0 {
		fmt.Fprintln(w, "Scene files (use with -config):")
		for _, info := range jsonScenes {
			fmt.Fprintf(w, "  %s - %s\n", info.FilePath, info.DisplayName)
		}
	}
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "PPM Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options] > image.ppm")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	newFlagSet(&options{}, w).PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Fprintf(w, "  %-8s - %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The image is written to standard output unless -o is given;")
	fmt.Fprintln(w, "progress goes to standard error.")
}
