package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/quadsurf/pkg/engine"
	"github.com/chazu/quadsurf/pkg/kernel"
	"github.com/chazu/quadsurf/pkg/kernel/sdfx"
	"github.com/chazu/quadsurf/pkg/mesh"
	"github.com/chazu/quadsurf/pkg/objio"
	"github.com/chazu/quadsurf/pkg/subdivide"
	"github.com/chazu/quadsurf/pkg/tessellate"
	"github.com/spf13/cobra"
)

// defaultLevels is the subdivision level used when neither the flag nor the
// script asks for one.
const defaultLevels = 2

// options holds the command line configuration.
type options struct {
	levels    int
	levelsSet bool
	out       string
	mode      string
	cube      float64
	name      string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "quadsurf [input.obj|input.qs]",
		Short: "Subdivide a quad control cage into a smooth surface",
		Long: `quadsurf reads a closed quad mesh from an OBJ file or builds one with a
script, applies Catmull-Clark subdivision and writes the result.

The output format follows the extension of --out:
  .obj   quad mesh
  .stl   triangulated binary STL
  .json  triangle mesh with normals (see --mode)`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.levelsSet = cmd.Flags().Changed("levels")
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return run(input, opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.levels, "levels", "l", defaultLevels, "subdivision levels; defaults to 2 for .obj and --cube input and to the script's (subdivide n), or 0, for scripts")
	f.StringVarP(&opts.out, "out", "o", "", "output file (.obj, .stl or .json)")
	f.StringVar(&opts.mode, "mode", tessellate.Indexed.String(), "normals for JSON output: flat, smooth, indexed or facet")
	f.Float64Var(&opts.cube, "cube", 0, "use a cube with this edge length as the cage instead of an input file")
	f.StringVar(&opts.name, "name", surfaceName, "part name stored in JSON output")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// run loads the cage, subdivides it and writes the result.
func run(input string, opts *options) error {
	exp, err := exporterFor(opts.out, opts.mode, opts.name)
	if err != nil {
		return err
	}

	cage, levels, err := loadCage(input, opts)
	if err != nil {
		return err
	}
	for _, ve := range cage.Validate() {
		log.Printf("cage: %v", ve)
	}

	surface, err := subdivide.Subdivide(cage, levels)
	if err != nil {
		return err
	}
	bb := sdfx.BoundingBox(surface)
	log.Printf("level %d: %d vertices, %d faces, mean edge %.4g, bounds %v..%v",
		levels, surface.VertexCount(), surface.FaceCount(), surface.MeanEdgeLength(), bb.Min, bb.Max)

	if err := exp.Export(opts.out, surface); err != nil {
		return err
	}
	log.Printf("wrote %s", opts.out)
	return nil
}

var errCubeWithInput = errors.New("--cube cannot be combined with an input file")

// loadCage returns the control cage and the level to subdivide it to.
func loadCage(input string, opts *options) (*mesh.Mesh, int, error) {
	levels := opts.levels
	if opts.levels < 0 {
		return nil, 0, fmt.Errorf("--levels %d: %w", opts.levels, subdivide.ErrInvalidLevel)
	}

	switch {
	case input != "" && opts.cube > 0:
		return nil, 0, fmt.Errorf("%s: %w", input, errCubeWithInput)
	case input == "" && opts.cube > 0:
		return mesh.NewCube(opts.cube), levels, nil
	case input == "":
		return nil, 0, errors.New("no input: pass an .obj or script file, or --cube SIZE")
	case strings.EqualFold(filepath.Ext(input), ".obj"):
		m, err := objio.Load(input)
		return m, levels, err
	}

	source, err := os.ReadFile(input)
	if err != nil {
		return nil, 0, fmt.Errorf("read script: %w", err)
	}
	script, evalErrs, err := engine.NewEngine().Evaluate(string(source))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", input, err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, 0, len(evalErrs))
		for _, e := range evalErrs {
			errs = append(errs, fmt.Errorf("%s: %w", input, e))
		}
		return nil, 0, errors.Join(errs...)
	}
	if !opts.levelsSet {
		levels = script.Levels
	}
	return script.Mesh, levels, nil
}

// exporterFor picks the output backend from the file extension.
func exporterFor(path, mode, name string) (kernel.Exporter, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return kernel.ExporterFunc(objio.Save), nil
	case ".stl":
		return sdfx.New(), nil
	case ".json":
		m, err := tessellate.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		return kernel.JSONExporter{Convert: tessellate.Converter(m, name)}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}
}
