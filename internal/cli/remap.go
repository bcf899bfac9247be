package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/refit/pkg/errors"
	refitio "github.com/matzehuels/refit/pkg/io"
	"github.com/matzehuels/refit/pkg/pipeline"
	"github.com/matzehuels/refit/pkg/remap"
)

// remapOpts holds the flags of the remap command.
type remapOpts struct {
	output  string
	noCache bool
	margin  float64
	padding float64
	jobs    int
}

// remapCommand creates the remap command.
func (c *CLI) remapCommand() *cobra.Command {
	var opts remapOpts

	cmd := &cobra.Command{
		Use:   "remap <request>...",
		Short: "Remap design request documents into payloads",
		Long: `Remap one or more request documents (JSON or YAML) into render-ready payloads.

With a single request the payload is written to stdout, or to the file given
by --output. With several requests they are remapped in parallel and each
payload is written to <output>/<name>.result.json. Requests sharing a name
are numbered in argument order (<name>-2.result.json, ...).`,
		Example: `  refit remap request.json
  refit remap request.yaml -o payload.json
  refit remap requests/*.json -o out/ -j 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRemap(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single request) or directory (several requests)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the payload cache")
	cmd.Flags().Float64Var(&opts.margin, "margin", remap.DefaultFlowMargin, "flow margin as a fraction of the target frame")
	cmd.Flags().Float64Var(&opts.padding, "padding", remap.DefaultCollisionPadding, "minimum gap kept by the collision sweep")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", pipeline.DefaultBatchLimit, "requests remapped in parallel")

	return cmd
}

func (c *CLI) runRemap(cmd *cobra.Command, paths []string, opts remapOpts) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("margin") {
		cfg.Engine.FlowMargin = opts.margin
	}
	if cmd.Flags().Changed("padding") {
		cfg.Engine.CollisionPadding = opts.padding
	}
	if err := cfg.Engine.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer runner.Close()
	runner.Logger = loggerFromContext(ctx)

	if len(paths) == 1 {
		return remapOne(ctx, runner, paths[0], opts.output, cmd.OutOrStdout())
	}
	return remapMany(ctx, runner, paths, opts)
}

// remapOne remaps a single request. Without an output path the payload
// goes to w and nothing else is printed there.
func remapOne(ctx context.Context, runner *pipeline.Runner, path, output string, w io.Writer) error {
	in, err := refitio.ReadRequest(path)
	if err != nil {
		return err
	}

	res, hit, err := runner.Remap(ctx, in)
	if err != nil {
		return err
	}
	if res == nil {
		runner.Logger.Warn("request is not ready: source or target missing", "request", path)
		return nil
	}

	if output == "" {
		return refitio.WriteResult(w, res)
	}
	if err := refitio.ExportResult(res, output); err != nil {
		return err
	}
	printResult(res, hit, output)
	return nil
}

// remapMany remaps several requests in parallel into a directory. A
// failing request is reported and the rest still complete.
func remapMany(ctx context.Context, runner *pipeline.Runner, paths []string, opts remapOpts) error {
	dir := opts.output
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	prog := newProgress(runner.Logger)
	outputs := resultPaths(dir, paths)

	var (
		inputs  []remap.Input
		sources []int
		failed  int
	)
	for i, p := range paths {
		in, err := refitio.ReadRequest(p)
		if err != nil {
			printError("%s", errs.UserMessage(err))
			failed++
			continue
		}
		inputs = append(inputs, in)
		sources = append(sources, i)
	}

	for _, it := range runner.RemapBatch(ctx, inputs, opts.jobs) {
		path := paths[sources[it.Index]]
		switch {
		case it.Err != nil:
			printError("%s: %s", path, errs.UserMessage(it.Err))
			failed++
		case it.Result == nil:
			printWarning("%s: source or target missing, skipped", path)
		default:
			out := outputs[sources[it.Index]]
			if err := refitio.ExportResult(it.Result, out); err != nil {
				printError("%s: %v", path, err)
				failed++
				continue
			}
			printResult(it.Result, it.CacheHit, out)
		}
	}

	prog.done(fmt.Sprintf("Remapped %d requests", len(paths)-failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(paths))
	}
	return nil
}

func printResult(res *remap.Result, cached bool, path string) {
	p := res.Payload
	printSuccess("Remapped %s %s %s", p.SourceContainer, iconArrow, p.TargetContainer)
	printStats(p.LayerCount(), p.ScaleFactor, len(res.Diagnostics), cached)
	for _, d := range res.Diagnostics {
		printWarning("%s", d.Message)
	}
	printFile(path)
}
