package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"raincloud/adapters/raster"
	"raincloud/adapters/rng"
	"raincloud/adapters/tabular"
	"raincloud/app"
	"raincloud/domain/core"
	"raincloud/domain/plot"
	domstats "raincloud/domain/stats"
	"raincloud/domain/table"
	"raincloud/internal/analysis"
	"raincloud/internal/export"
	"raincloud/internal/palette"
	"raincloud/internal/render"
	"raincloud/internal/report"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rainplot",
		Short: "Raincloud plots and group statistics from CSV and Excel files",
	}

	rootCmd.AddCommand(
		newPlotCmd(),
		newStatsCmd(),
		newReportCmd(),
		newDataCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// passFlags are the settings shared by every subcommand that runs a pass.
type passFlags struct {
	test    string
	palette string
	colors  string
	side    string
	seed    int64
}

func (f *passFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.test, "test", "welch", "Pairwise test: welch|mannwhitney")
	cmd.Flags().StringVar(&f.palette, "palette", palette.Aurora, "Color palette name")
	cmd.Flags().StringVar(&f.colors, "colors", "", "Comma-separated hex colors for the Custom palette")
	cmd.Flags().StringVar(&f.side, "side", "left", "Violin side: left|right")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Jitter seed for reproducible layouts; 0 draws fresh jitter")
}

func (f *passFlags) testType() (domstats.TestType, error) {
	switch strings.ToLower(f.test) {
	case "welch", "t", "ttest":
		return domstats.TestWelch, nil
	case "mannwhitney", "mann-whitney", "u":
		return domstats.TestMannWhitney, nil
	default:
		return "", fmt.Errorf("invalid test: %s (expected welch|mannwhitney)", f.test)
	}
}

func (f *passFlags) violinSide() (plot.Side, error) {
	switch strings.ToLower(f.side) {
	case "left":
		return plot.SideLeft, nil
	case "right":
		return plot.SideRight, nil
	default:
		return "", fmt.Errorf("invalid side: %s (expected left|right)", f.side)
	}
}

func newPlotCmd() *cobra.Command {
	var flags passFlags
	var out string
	var title, xLabel, yLabel string
	var width, height, scale int
	var noGrid, transparent bool
	var rasterizer string

	cmd := &cobra.Command{
		Use:   "plot [data-file]",
		Short: "Render a raincloud plot for every numeric column",
		Long: `Render a raincloud plot (violin, box, and jittered points per column)
for the numeric columns of a CSV or Excel file.

The output format follows the -o extension: .svg needs nothing, .png and
.pdf shell out to an SVG rasterizer on PATH.

Example: rainplot plot trial.csv -o trial.svg --palette Ocean --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			style := plot.DefaultPlotStyle()
			style.Palette = flags.palette
			style.CustomColors = flags.colors
			style.Title = title
			style.XLabel = xLabel
			style.YLabel = yLabel
			style.FigureWidth = width
			style.FigureHeight = height
			style.ShowGrid = !noGrid
			style.Transparent = transparent
			return runPlot(cmd.Context(), args[0], out, flags, style, scale, rasterizer)
		},
	}

	flags.register(cmd)
	defaults := plot.DefaultPlotStyle()
	cmd.Flags().StringVarP(&out, "out", "o", export.FileSVG, "Output file (.svg, .png, or .pdf)")
	cmd.Flags().StringVar(&title, "title", defaults.Title, "Plot title")
	cmd.Flags().StringVar(&xLabel, "x-label", defaults.XLabel, "X axis label")
	cmd.Flags().StringVar(&yLabel, "y-label", defaults.YLabel, "Y axis label")
	cmd.Flags().IntVar(&width, "width", defaults.FigureWidth, "Figure width in pixels")
	cmd.Flags().IntVar(&height, "height", defaults.FigureHeight, "Figure height in pixels")
	cmd.Flags().IntVar(&scale, "scale", export.DefaultScale, "Pixel scale for PNG output")
	cmd.Flags().BoolVar(&noGrid, "no-grid", false, "Hide the background grid")
	cmd.Flags().BoolVar(&transparent, "transparent", false, "Transparent background")
	cmd.Flags().StringVar(&rasterizer, "rasterizer", "rsvg-convert", "SVG rasterizer binary for PNG/PDF output")

	return cmd
}

func newStatsCmd() *cobra.Command {
	var flags passFlags

	cmd := &cobra.Command{
		Use:   "stats [data-file]",
		Short: "Print descriptive, normality, and pairwise statistics",
		Long: `Compute the full statistics pass for a CSV or Excel file and print the
tables: per-group descriptives, normality checks, and all-pairs group
comparisons with the selected test.

Example: rainplot stats trial.csv --test mannwhitney`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), args[0], flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func newReportCmd() *cobra.Command {
	var flags passFlags
	var out string

	cmd := &cobra.Command{
		Use:   "report [data-file]",
		Short: "Write the full markdown analysis report",
		Long: `Run the statistics pass and write the markdown report, the same document
the web UI offers for download. Use -o - to print to stdout.

Example: rainplot report trial.csv -o analysis.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), args[0], out, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", report.FileName, "Output file, or - for stdout")
	return cmd
}

func newDataCmd() *cobra.Command {
	var flags passFlags
	var out string

	cmd := &cobra.Command{
		Use:   "data [data-file]",
		Short: "Write the reshaped long-form data as CSV",
		Long: `Reshape the wide input table into long (Group, Value) rows, dropping
missing cells, and write the result as CSV. These are exactly the rows the
statistics run on.

Example: rainplot data trial.xlsx -o long.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runData(cmd.Context(), args[0], out, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", export.FileCSV, "Output file, or - for stdout")
	return cmd
}

func runPass(ctx context.Context, dataFile string, flags passFlags, style plot.PlotStyle) (*app.PassResult, *render.Renderer, error) {
	testType, err := flags.testType()
	if err != nil {
		return nil, nil, err
	}
	side, err := flags.violinSide()
	if err != nil {
		return nil, nil, err
	}

	ds, err := loadDataset(dataFile)
	if err != nil {
		return nil, nil, err
	}

	layoutSpec := plot.DefaultLayoutSpec()
	layoutSpec.ViolinSide = side

	renderer := render.NewRenderer(128)
	svc := app.NewPlotService(
		rng.NewSource(),
		renderer,
		analysis.NewEngine(),
		report.NewBuilder(),
		palette.NewRegistry(),
		flags.seed,
		table.MaxColumns,
	)

	result, err := svc.RunPass(ctx, app.PassRequest{
		Dataset:  ds,
		TestType: testType,
		Layout:   layoutSpec,
		Style:    style,
	})
	if err != nil {
		return nil, nil, err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Subject, w.Message)
	}
	return result, renderer, nil
}

func runPlot(ctx context.Context, dataFile, out string, flags passFlags, style plot.PlotStyle, scale int, rasterizer string) error {
	result, renderer, err := runPass(ctx, dataFile, flags, style)
	if err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(out)) {
	case ".svg":
		data = result.ChartSVG
	case ".png":
		exp := export.NewExporter(renderer, raster.Detect(rasterizer))
		data, err = exp.PNG(ctx, result.Scene, scale, style.Transparent)
	case ".pdf":
		exp := export.NewExporter(renderer, raster.Detect(rasterizer))
		data, err = exp.PDF(ctx, result.Scene)
	default:
		return fmt.Errorf("unsupported output extension %q (expected .svg, .png, or .pdf)", filepath.Ext(out))
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("Wrote %s: %d groups, %d points\n", out, len(result.Groups), len(result.Records))
	return nil
}

func runStats(ctx context.Context, dataFile string, flags passFlags) error {
	result, _, err := runPass(ctx, dataFile, flags, plot.DefaultPlotStyle())
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d records across %d groups\n", result.DatasetName, len(result.Records), len(result.Groups))

	fmt.Printf("\n=== DESCRIPTIVE STATISTICS ===\n")
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Group\tCount\tMean\tStd Dev\tMin\tQ25\tMedian\tQ75\tMax")
	for _, row := range result.Descriptives {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Group, row.Count,
			cell(row.Mean), cell(row.StdDev), cell(row.Min),
			cell(row.Q25), cell(row.Median), cell(row.Q75), cell(row.Max))
	}
	tw.Flush()

	if len(result.Normality) > 0 {
		fmt.Printf("\n=== NORMALITY ===\n")
		tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Group\tCount\tShapiro W\tShapiro p\tAnderson A2\t5% Crit\tNormal")
		for _, row := range result.Normality {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
				row.Group, row.Count,
				cell(row.ShapiroW), cell(row.ShapiroP),
				cell(row.AndersonStat), cell(row.AndersonCrit), yesNo(row.Normal))
		}
		tw.Flush()
	}

	if len(result.Pairs) > 0 {
		fmt.Printf("\n=== PAIRWISE COMPARISONS (%s) ===\n", result.TestType)
		tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		if result.TestType.Parametric() {
			fmt.Fprintln(tw, "Pair\tN1\tN2\tT-stat\tP-value\tCohen's d\tBayes Factor\tSignificant")
			for _, p := range result.Pairs {
				fmt.Fprintf(tw, "%s vs %s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
					p.GroupA, p.GroupB, p.N1, p.N2,
					cell(p.Statistic), cell(p.PValue), ptrCell(p.EffectSize), ptrCell(p.BayesFactor),
					yesNo(p.Significant()))
			}
		} else {
			fmt.Fprintln(tw, "Pair\tN1\tN2\tU-stat\tP-value\tSignificant")
			for _, p := range result.Pairs {
				fmt.Fprintf(tw, "%s vs %s\t%d\t%d\t%s\t%s\t%s\n",
					p.GroupA, p.GroupB, p.N1, p.N2,
					cell(p.Statistic), cell(p.PValue), yesNo(p.Significant()))
			}
		}
		tw.Flush()
	}

	return nil
}

func runReport(ctx context.Context, dataFile, out string, flags passFlags) error {
	result, _, err := runPass(ctx, dataFile, flags, plot.DefaultPlotStyle())
	if err != nil {
		return err
	}
	return writeOutput(out, result.ReportMD)
}

func runData(ctx context.Context, dataFile, out string, flags passFlags) error {
	result, renderer, err := runPass(ctx, dataFile, flags, plot.DefaultPlotStyle())
	if err != nil {
		return err
	}
	exp := export.NewExporter(renderer, nil)
	data, err := exp.CSV(result.Records)
	if err != nil {
		return err
	}
	return writeOutput(out, data)
}

func writeOutput(out string, data []byte) error {
	if out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", out, len(data))
	return nil
}

func loadDataset(path string) (table.Dataset, error) {
	reader := tabular.NewReader()
	if !reader.Supports(path) {
		return table.Dataset{}, fmt.Errorf("unsupported file type %q (expected .csv, .xlsx, or .xls)", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return table.Dataset{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return table.Dataset{}, err
	}

	tbl, err := reader.Read(f, path)
	if err != nil {
		return table.Dataset{}, err
	}

	return table.Dataset{
		ID:         core.NewDatasetID(),
		Name:       filepath.Base(path),
		Table:      tbl,
		UploadedAt: time.Now(),
		SizeBytes:  info.Size(),
	}, nil
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func ptrCell(v *float64) string {
	if v == nil {
		return ""
	}
	return cell(*v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
