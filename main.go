// Command heightfield renders procedural terrain height maps.
//
//	heightfield [-config file.json] [-o out.png] [-width n] [-seed n] ...
//	heightfield -serve [-addr :8080]
//
// Flags override the values read from the config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"runtime.link/api/xray"

	"the.quetzal.community/heightfield/internal/config"
	"the.quetzal.community/heightfield/internal/mapgen"
	"the.quetzal.community/heightfield/internal/server"
	"the.quetzal.community/heightfield/internal/sink"
)

type options struct {
	config string
	output string
	serve  bool
}

// bind registers the flags that override fields of c.
func bind(fs *flag.FlagSet, c *config.Config) {
	fs.IntVar(&c.Map.Width, "width", c.Map.Width, "map width in cells")
	fs.IntVar(&c.Map.Height, "height", c.Map.Height, "map height in cells")
	fs.Int64Var(&c.Map.Seed, "seed", c.Map.Seed, "octave offset seed")
	fs.Float64Var(&c.Map.Scale, "scale", c.Map.Scale, "zoom factor, must be positive")
	fs.IntVar(&c.Map.Octaves, "octaves", c.Map.Octaves, "number of noise layers")
	fs.Float64Var(&c.Map.Persistence, "persistence", c.Map.Persistence, "amplitude multiplier per octave")
	fs.Float64Var(&c.Map.Lacunarity, "lacunarity", c.Map.Lacunarity, "frequency multiplier per octave")
	fs.Float64Var(&c.Map.Offset.X, "offset-x", c.Map.Offset.X, "horizontal offset added to every octave")
	fs.Float64Var(&c.Map.Offset.Y, "offset-y", c.Map.Offset.Y, "vertical offset added to every octave")
	fs.StringVar((*string)(&c.Noise.Kind), "noise", string(c.Noise.Kind), "noise source: simplex, opensimplex or perlin")
	fs.Int64Var(&c.Noise.Seed, "noise-seed", c.Noise.Seed, "seed of the noise source")
	fs.StringVar(&c.Server.Address, "addr", c.Server.Address, "listen address for -serve")
}

// configure parses args on top of the defaults, or on top of the -config
// file when one is given.
func configure(args []string) (config.Config, options, error) {
	var opts options
	c := config.Default()
	fs := flag.NewFlagSet("heightfield", flag.ContinueOnError)
	fs.StringVar(&opts.config, "config", "", "JSON config file")
	fs.StringVar(&opts.output, "o", "heightmap.png", "output PNG file")
	fs.BoolVar(&opts.serve, "serve", false, "serve height maps over HTTP instead of rendering one")
	bind(fs, &c)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, opts, err
	}
	if fs.NArg() > 0 {
		return config.Config{}, opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.config != "" {
		loaded, err := config.Load(opts.config)
		if err != nil {
			return config.Config{}, opts, err
		}
		overlay := flag.NewFlagSet("overlay", flag.ContinueOnError)
		bind(overlay, &loaded)
		var errs []error
		fs.Visit(func(f *flag.Flag) {
			if overlay.Lookup(f.Name) != nil {
				if err := overlay.Set(f.Name, f.Value.String()); err != nil {
					errs = append(errs, err)
				}
			}
		})
		if len(errs) > 0 {
			return config.Config{}, opts, errs[0]
		}
		c = loaded
	}
	return c, opts, c.Validate()
}

func render(ctx context.Context, c config.Config, output string) error {
	src, err := c.Source()
	if err != nil {
		return err
	}
	generator := mapgen.Generator{
		Noise:    src,
		Sink:     sink.File{Path: output},
		Gradient: c.ColorGradient(),
		Print: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format, args...)
		},
	}
	return generator.Generate(ctx, c.Map)
}

func serve(c config.Config) error {
	srv, err := server.New(c)
	if err != nil {
		return err
	}
	srv.Print = log.Printf
	log.Printf("listening on %s", c.Server.Address)
	if err := http.ListenAndServe(c.Server.Address, srv.Handler()); err != nil {
		return xray.New(err)
	}
	return nil
}

func main() {
	c, opts, err := configure(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if opts.serve {
		err = serve(c)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = render(ctx, c, opts.output)
		stop()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
