package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/mandelbrot-mcp/internal/config"
	"github.com/ironsheep/mandelbrot-mcp/internal/fractal"
	"github.com/ironsheep/mandelbrot-mcp/internal/imaging"
	"github.com/ironsheep/mandelbrot-mcp/internal/server"
	"github.com/spf13/cobra"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type serveFlags struct {
	transport string
	httpAddr  string
}

func mainCmd() *cobra.Command {
	sf := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "mandelbrot-mcp",
		Short: "MCP server for exploring the Mandelbrot set",
		Long: `mandelbrot-mcp serves Mandelbrot escape-time tools over the MCP protocol,
on stdin/stdout by default or over streamable HTTP. Configure it in your
MCP client (e.g., Claude Desktop).

Environment variables:
  MANDELBROT_MCP_TRANSPORT=stdio           Transport type: stdio or http
  MANDELBROT_MCP_HTTP_ADDR=localhost:8081  HTTP listen address
  MANDELBROT_MCP_LOG_LEVEL=debug           Enable debug logging
  MANDELBROT_MCP_WORKERS=1                 Concurrent columns per sample
  MANDELBROT_MCP_MAX_PIXELS=4000000        Pixel budget per request
  MANDELBROT_MCP_MAX_ITER=100000           Iteration limit per request
  MANDELBROT_MCP_PALETTE=viridis           Default palette
  MANDELBROT_MCP_INTERIOR_COLOR=#000000    Default interior colour
  MANDELBROT_MCP_OUTPUT_DIR=               Base directory for relative output paths`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), sf)
		},
	}
	cmd.Flags().StringVar(&sf.transport, "transport", "", "transport type: stdio or http (default from MANDELBROT_MCP_TRANSPORT)")
	cmd.Flags().StringVar(&sf.httpAddr, "http-addr", "", "HTTP listen address (default from MANDELBROT_MCP_HTTP_ADDR)")
	cmd.SilenceUsage = true

	cmd.AddCommand(versionCmd(), renderCmd())

	return cmd
}

func setupLogging(cfg config.Config) {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if cfg.Debug() {
		log.Printf("Mandelbrot MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}
}

func runServe(ctx context.Context, sf *serveFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// flags override the environment
	if sf.transport != "" {
		cfg.Transport = sf.transport
	}
	if sf.httpAddr != "" {
		cfg.HTTPAddr = sf.httpAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	setupLogging(cfg)

	srv := server.New(cfg, Version)
	if cfg.Transport == config.TransportHTTP {
		err = srv.RunHTTP(ctx, cfg.HTTPAddr)
	} else {
		err = srv.Run(ctx)
	}
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", server.ServerName, Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}

type renderFlags struct {
	width, height int
	maxIter       int
	centerX       float64
	centerY       float64
	zoom          float64
	region        string
	palette       string
	interiorColor string
	scale         float64
	axes          int
	axesColor     string
	output        string
}

func renderCmd() *cobra.Command {
	f := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a view of the set to a PNG file",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRender(f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.width, "width", 600, "grid width in samples")
	flags.IntVar(&f.height, "height", 600, "grid height in samples")
	flags.IntVar(&f.maxIter, "max-iter", 100, "iteration bound")
	flags.Float64Var(&f.centerX, "center-x", fractal.DefaultView.CenterX, "real part of the view center")
	flags.Float64Var(&f.centerY, "center-y", fractal.DefaultView.CenterY, "imaginary part of the view center")
	flags.Float64Var(&f.zoom, "zoom", fractal.DefaultView.Zoom, "zoom factor")
	flags.StringVar(&f.region, "region", "", "named landmark region, overrides the view")
	flags.StringVar(&f.palette, "palette", "", "colour scale (default from MANDELBROT_MCP_PALETTE)")
	flags.StringVar(&f.interiorColor, "interior-color", "", "hex colour for interior points")
	flags.Float64Var(&f.scale, "scale", 1, "output scale factor")
	flags.IntVar(&f.axes, "axes", 0, "labelled coordinate divisions per axis")
	flags.StringVar(&f.axesColor, "axes-color", imaging.DefaultAxesColor, "hex colour for coordinate lines")
	flags.StringVarP(&f.output, "output", "o", "mandelbrot.png", "output PNG path")

	return cmd
}

func runRender(f *renderFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	srv := server.New(cfg, Version)
	res, err := srv.Render(server.RenderRequest{
		Width:         f.width,
		Height:        f.height,
		MaxIter:       f.maxIter,
		View:          &fractal.View{CenterX: f.centerX, CenterY: f.centerY, Zoom: f.zoom},
		Region:        f.region,
		Palette:       f.palette,
		InteriorColor: f.interiorColor,
		Options: imaging.RenderOptions{
			Scale:      f.scale,
			Axes:       f.axes,
			AxesColor:  f.axesColor,
			OutputPath: f.output,
		},
	})
	if err != nil {
		return err
	}

	log.Printf("rendered %dx%d over %+v in %.3fs (%d interior pixels) to %s",
		res.Width, res.Height, res.Bounds, res.ComputationSeconds, res.InteriorPixels, res.SavedPath)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := mainCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
