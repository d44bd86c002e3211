package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/trackbundle/trackbundle/attrs"
	bundlepkg "github.com/trackbundle/trackbundle/bundle"
	"github.com/trackbundle/trackbundle/cluster"
	"github.com/trackbundle/trackbundle/config"
	"github.com/trackbundle/trackbundle/loader"
	"github.com/trackbundle/trackbundle/serialize"
	"github.com/trackbundle/trackbundle/trace"
)

var bundleOpts struct {
	input       string
	output      string
	configPath  string
	resampleTo  int
	k           int
	shortLength int
	clusterIters int
	iterations  int
	chunkSize   int
	magnetRadius float32
	stepSize     float32
	angleMin     float32
	angleStick   float32
	smoothRadius int
	smoothIntensity float32
	bundleEndpoints int

	addRadius     bool
	addTime       bool
	addAngle      bool
	moveToCenter  bool
	scaleToUnit   bool

	traceEnabled bool
	traceOut     string
}

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Load a directory of trajectory CSVs, cluster and bundle them, and write a JSON dataset",
	RunE:  runBundle,
}

func init() {
	f := bundleCmd.Flags()
	f.StringVar(&bundleOpts.input, "input", "", "Directory containing one CSV file per trajectory (required)")
	f.StringVar(&bundleOpts.output, "output", "bundled.json", "Output dataset JSON path")
	f.StringVar(&bundleOpts.configPath, "config", "", "Optional YAML parameter file")
	f.IntVar(&bundleOpts.resampleTo, "resample-to", 50, "Fixed length every trajectory is resampled to")

	f.IntVar(&bundleOpts.k, "k", 0, "Number of clusters (unset = estimate from trajectory count)")
	f.IntVar(&bundleOpts.shortLength, "short-length", cluster.DefaultShortLength, "Clustering downsample length")
	f.IntVar(&bundleOpts.clusterIters, "cluster-iters", cluster.DefaultIterations, "QuickBundles iteration count")
	f.IntVar(&bundleOpts.iterations, "iterations", 0, "Bundling outer iterations (unset = estimate)")
	f.IntVar(&bundleOpts.chunkSize, "chunk-size", 0, "Trajectories per device launch chunk (unset = estimate)")
	f.Float32Var(&bundleOpts.magnetRadius, "magnet-radius", 0, "Attraction radius (unset = estimate from data extent)")
	f.Float32Var(&bundleOpts.stepSize, "step-size", 0, "Attraction step size (unset = estimate)")
	f.Float32Var(&bundleOpts.angleMin, "angle-min", 0, "Directional gate threshold (0 = disabled)")
	f.Float32Var(&bundleOpts.angleStick, "angle-stick", 0, "Reserved, currently unused")
	f.IntVar(&bundleOpts.smoothRadius, "smooth-radius", 0, "Smoothing neighborhood radius (unset = estimate)")
	f.Float32Var(&bundleOpts.smoothIntensity, "smooth-intensity", 0, "Smoothing blend factor (unset = estimate)")
	f.IntVar(&bundleOpts.bundleEndpoints, "bundle-endpoints", 0, "Nonzero lets endpoints move during attraction")

	f.BoolVar(&bundleOpts.addRadius, "add-radius", false, "Append a radius-from-origin attribute")
	f.BoolVar(&bundleOpts.addTime, "add-time", false, "Append a position-index attribute")
	f.BoolVar(&bundleOpts.addAngle, "add-angle", false, "Append an angle-to-start attribute")
	f.BoolVar(&bundleOpts.moveToCenter, "move-to-center", false, "Translate the dataset barycenter to the origin before bundling")
	f.BoolVar(&bundleOpts.scaleToUnit, "scale-to-unit", false, "Scale the dataset so its largest positive coordinate becomes 1 before bundling")

	f.BoolVar(&bundleOpts.traceEnabled, "trace", false, "Record per-iteration convergence diagnostics")
	f.StringVar(&bundleOpts.traceOut, "trace-out", "", "Optional path to dump the convergence trace as JSON")

	_ = bundleCmd.MarkFlagRequired("input")
}

func runBundle(cmd *cobra.Command, args []string) error {
	tracks, attributes, err := loader.LoadFolder(bundleOpts.input, loader.Options{ResampleTo: bundleOpts.resampleTo})
	if err != nil {
		return fmt.Errorf("load trajectories: %w", err)
	}
	if tracks.T == 0 {
		logrus.Warn("no usable trajectories found, nothing to bundle")
	}

	if bundleOpts.moveToCenter {
		center := attrs.Barycenter(tracks)
		attrs.Translate(tracks, -center[0], -center[1], -center[2])
	}
	if bundleOpts.scaleToUnit {
		_, max := tracks.Bounds()
		extent := max[0]
		if max[1] > extent {
			extent = max[1]
		}
		if max[2] > extent {
			extent = max[2]
		}
		if extent > 0 {
			attrs.Scale(tracks, 1/extent)
		}
	}
	if bundleOpts.addRadius {
		attributes = attrs.AddRadius(tracks, attributes)
	}
	if bundleOpts.addTime {
		attributes = attrs.AddTime(tracks, attributes)
	}
	if bundleOpts.addAngle {
		attributes = attrs.AddAngleToStart(tracks, attributes)
	}

	defaults := bundlepkg.EstimateDefaults(tracks)
	cliCfg := cliOverrides(cmd)
	var fileCfg *config.File
	if bundleOpts.configPath != "" {
		fileCfg, err = config.LoadFile(bundleOpts.configPath)
		if err != nil {
			return err
		}
	}
	params := config.Resolve(defaults, fileCfg, cliCfg)

	k := params.K
	assignment, _, err := cluster.Build(tracks, k, params.ShortLength, params.ClusterIters)
	if err != nil {
		return fmt.Errorf("cluster trajectories: %w", err)
	}

	device, err := bundlepkg.NewCPUDevice("cpu:0")
	if err != nil {
		return fmt.Errorf("initialize device: %w", err)
	}

	recorder := trace.NewRecorder(bundleOpts.traceEnabled)
	dispatcher := bundlepkg.NewDispatcher(device, bundlepkg.WithTrace(recorder))

	bundled, err := dispatcher.Run(context.Background(), tracks, assignment, params)
	if err != nil {
		return fmt.Errorf("bundle trajectories: %w", err)
	}

	if bundleOpts.traceOut != "" {
		data, err := json.MarshalIndent(recorder.Records, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal trace: %w", err)
		}
		if err := os.WriteFile(bundleOpts.traceOut, data, 0o644); err != nil {
			return fmt.Errorf("write trace file: %w", err)
		}
	}

	dataset := serialize.NewDataset("original", tracks, attributes)
	dataset.AddState("bundled", bundled)
	if err := serialize.WriteFile(bundleOpts.output, dataset); err != nil {
		return err
	}

	logrus.Infof("wrote %s: %d trajectories, %d clusters, %d iterations", bundleOpts.output, tracks.T, len(assignment.Members), params.Iterations)
	return nil
}

// cliOverrides builds a config.File holding only the flags the user
// actually set, so unset flags fall through to the YAML file or the
// estimator default instead of clobbering them with a flag's zero value.
func cliOverrides(cmd *cobra.Command) *config.File {
	f := &config.File{}
	flags := cmd.Flags()
	if flags.Changed("k") {
		f.K = &bundleOpts.k
	}
	if flags.Changed("short-length") {
		f.ShortLength = &bundleOpts.shortLength
	}
	if flags.Changed("cluster-iters") {
		f.ClusterIters = &bundleOpts.clusterIters
	}
	if flags.Changed("iterations") {
		f.Iterations = &bundleOpts.iterations
	}
	if flags.Changed("chunk-size") {
		f.ChunkSize = &bundleOpts.chunkSize
	}
	if flags.Changed("magnet-radius") {
		f.MagnetRadius = &bundleOpts.magnetRadius
	}
	if flags.Changed("step-size") {
		f.StepSize = &bundleOpts.stepSize
	}
	if flags.Changed("angle-min") {
		f.AngleMin = &bundleOpts.angleMin
	}
	if flags.Changed("angle-stick") {
		f.AngleStick = &bundleOpts.angleStick
	}
	if flags.Changed("smooth-radius") {
		f.SmoothRadius = &bundleOpts.smoothRadius
	}
	if flags.Changed("smooth-intensity") {
		f.SmoothIntensity = &bundleOpts.smoothIntensity
	}
	if flags.Changed("bundle-endpoints") {
		f.BundleEndpoints = &bundleOpts.bundleEndpoints
	}
	return f
}
