// Package server implements the MCP (Model Context Protocol) server for the
// Mandelbrot tools.
//
// # Protocol
//
// The tools are served with the official MCP Go SDK on one of two
// transports:
//   - Run: JSON-RPC 2.0 over stdin/stdout, one message per line
//   - RunHTTP: the streamable HTTP transport
//
// Both share the same tool definitions and handlers, so a call behaves the
// same on either. Arguments are validated against the tool input schemas and
// schema defaults are filled in before a handler runs. Cancelling the context
// passed to Run or RunHTTP stops the server.
//
// # Available Tools
//
//   - mandelbrot_evaluate: Escape value of one point
//   - mandelbrot_sample: Escape values over a grid
//   - mandelbrot_view_bounds: Bounds covered by a center and zoom
//   - mandelbrot_regions: Named landmark regions
//   - mandelbrot_render: Coloured PNG of a region
//   - mandelbrot_color: Colour assigned to an escape value
//
// Omitted arguments take the defaults of the interactive explorer: a 600x600
// grid, 100 iterations, and the view centered on (-0.5, 0) at zoom 1. A
// size or iteration bound that is given must be at least 1.
// Requests larger than the configured pixel or iteration budget are refused.
//
// # Error Handling
//
// Arguments the schemas or the handlers reject (anything wrapping
// fractal.ErrInvalidParameter, including unknown tools) fail the call with
// JSON-RPC error -32602. Other failures, such as an orbit overflowing or an
// output file that cannot be written, are returned as tool results with
// isError set and the error text as content.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg, version)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// or, for HTTP clients:
//
//	err = srv.RunHTTP(ctx, cfg.HTTPAddr)
package server
