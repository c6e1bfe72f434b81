// Package pkg provides the libraries behind rwpspread, a multi-monitor
// wallpaper splitter for Wayland compositors.
//
// # Overview
//
// rwpspread takes one image and cuts it into one wallpaper per monitor so
// that, side by side, the monitors show the image as if it were a single
// screen. The pkg directory is organized into three areas:
//
//  1. Core - the layout, partition and cache logic, free of any I/O beyond the work directory
//  2. Collaborators - compositors, wallpaper daemons, lockscreens and the source watcher
//  3. [pipeline] - Orchestration (source → resolve → gate → export → apply)
//
// # Architecture
//
// The data flow of one run:
//
//	Compositor ([outputs])           Image file ([raster])
//	         ↓                                ↓
//	    [layout] package (bezel + ppi compensation, normalization)
//	         ↓
//	    [cache] package (key, exact-set validity of the work directory)
//	         ↓ miss
//	    [partition] package (scale or align, crop rectangles)
//	         ↓
//	    rwps_<monitor>_<hash>.png + sidecars ([locker], [palette])
//	         ↓
//	    [backend] package (wpaperd, hyprpaper, swaybg)
//
// # Quick Start
//
// Split an image across the detected monitors:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/rwpspread/pkg/outputs"
//	    "github.com/matzehuels/rwpspread/pkg/pipeline"
//	)
//
//	provider, _ := outputs.Detect(nil)
//	runner := pipeline.NewRunner(provider, nil, nil)
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Input:  "/home/me/wall.png",
//	    Output: "/home/me/.cache/rwpspread",
//	})
//	fmt.Println(result.Wallpapers["DP-1"])
//
// # Main Packages
//
// ## Core
//
// [monitor] - The monitor model and the enumeration and refresh interfaces.
//
// [layout] - The layout solver: optional ppi compensation, bounded overlap
// relaxation that opens bezel gaps, and normalization to a (0,0) origin.
//
// [partition] - The partition planner: decides between filling the canvas
// and aligning it inside a larger image, and computes the crop rectangles.
//
// [cache] - The cache gate: blake3 key over configuration, layout and image
// bytes; artifact naming; validity and invalidation of the work directory.
//
// ## Collaborators
//
// [outputs] - Monitor enumeration over Hyprland IPC, Sway IPC or wlr-randr.
//
// [watch] - inotify based source file watcher.
//
// [backend] - Wallpaper setters: wpaperd, hyprpaper and swaybg.
//
// [locker] - hyprlock and swaylock config sidecars.
//
// [palette] - Color palette sidecar generated from the source image.
//
// [raster] - Image decoding, resizing, cropping and PNG encoding.
//
// ## Infrastructure
//
// [pipeline] - Single runs ([pipeline.Runner]) and the daemon loop
// ([pipeline.Daemon]) used by the CLI.
//
// [errors] - Coded errors shared by all packages.
//
// [observability] - Hooks for resolve, export, cache and daemon events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/layout/...      # Specific package
//
// [monitor]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/monitor
// [layout]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/layout
// [partition]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/partition
// [cache]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/cache
// [outputs]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/outputs
// [watch]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/watch
// [backend]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/backend
// [locker]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/locker
// [palette]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/palette
// [raster]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/raster
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/rwpspread/pkg/observability
package pkg
