package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/rteja/rodsim/internal/boundary"
	"github.com/rteja/rodsim/internal/config"
	"github.com/rteja/rodsim/internal/forces"
	"github.com/rteja/rodsim/internal/linalg"
	"github.com/rteja/rodsim/internal/plot"
	"github.com/rteja/rodsim/internal/rod"
	"github.com/rteja/rodsim/internal/sim"
	"github.com/rteja/rodsim/internal/store"
	"github.com/rteja/rodsim/internal/viz"
)

var (
	dataDir       string
	finalTime     float64
	totalSteps    int
	recordEvery   int
	elements      int
	stepperName   string
	velocity      float64
	inertiaFactor float64
	configFile    string
	preset        string
	jsonPath      string
	csvPath       string
	pngPath       string
	stepsPerTick  int
	// Sweep range
	sweepMin   float64
	sweepMax   float64
	sweepCount int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rodsim",
		Short: "Cosserat rod simulation lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rodsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario",
		Long:  "run a scenario: rolling, falling, spin, cantilever",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&jsonPath, "json", "", "also export the run to a JSON file")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "also export the trajectory to a CSV file")
	runCmd.Flags().StringVar(&pngPath, "png", "", "also plot the run to a PNG file")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the inertia factor of the rolling scenario",
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.2, "smallest inertia factor")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2.0, "largest inertia factor")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 10, "number of factors")
	sweepCmd.Flags().StringVar(&pngPath, "png", "", "plot the sweep to a PNG file")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerTick, "substeps", 200, "integration steps per display tick")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, sweepCmd, liveCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&finalTime, "time", config.DefaultFinalTime, "simulated time")
	cmd.Flags().IntVar(&totalSteps, "steps", config.DefaultTotalSteps, "total integration steps")
	cmd.Flags().IntVar(&recordEvery, "record-every", config.DefaultRecordEvery, "record every nth step")
	cmd.Flags().IntVar(&elements, "elements", config.DefaultElements, "rod elements")
	cmd.Flags().StringVar(&stepperName, "stepper", "verlet", "stepper: verlet or pefrl")
	cmd.Flags().Float64Var(&velocity, "velocity", 0.0, "initial speed")
	cmd.Flags().Float64Var(&inertiaFactor, "ifactor", 1.0, "inertia scaling factor")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers defaults, preset, config file, and explicit flags,
// in that order of increasing priority.
func resolveConfig(cmd *cobra.Command, scenario string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Scenario = scenario

	if preset != "" {
		p := config.GetPreset(scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Scenario = scenario
	}

	if cmd.Flags().Changed("time") {
		cfg.FinalTime = finalTime
	}
	if cmd.Flags().Changed("steps") {
		cfg.TotalSteps = totalSteps
	}
	if cmd.Flags().Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}
	if cmd.Flags().Changed("elements") {
		cfg.Rod.Elements = elements
	}
	if cmd.Flags().Changed("stepper") {
		cfg.Stepper = stepperName
	}
	if cmd.Flags().Changed("velocity") {
		cfg.Rod.Velocity = velocity
	}
	if cmd.Flags().Changed("ifactor") {
		cfg.Rod.InertiaFactor = inertiaFactor
	}

	return cfg, nil
}

func getStepper(name string) (*sim.Stepper, error) {
	switch name {
	case "verlet", "":
		return sim.PositionVerlet(), nil
	case "pefrl":
		return sim.PEFRL(), nil
	default:
		return nil, fmt.Errorf("unknown stepper: %s (want verlet or pefrl)", name)
	}
}

// scene is one assembled scenario. Exactly one of rodBody and sphere is
// set, depending on the scenario.
type scene struct {
	collection *sim.Collection
	rodBody    *rod.CosseratRod
	sphere     *rod.Sphere
}

func buildScene(cfg *config.Config) (scene, error) {
	if cfg.Scenario == "spin" {
		s, err := rod.NewSphere("sphere", linalg.Vec{}, cfg.Rod.Radius, cfg.Rod.Density)
		if err != nil {
			return scene{}, err
		}
		s.Omega = linalg.Vec{0, 0, cfg.Rod.Velocity}
		c := sim.NewCollection()
		if err := c.Append(s); err != nil {
			return scene{}, err
		}
		if err := c.Finalize(); err != nil {
			return scene{}, err
		}
		return scene{collection: c, sphere: s}, nil
	}

	spec := rod.StraightRodSpec{
		Name:          "rod",
		Elements:      cfg.Rod.Elements,
		Length:        cfg.Rod.Length,
		Radius:        cfg.Rod.Radius,
		Density:       cfg.Rod.Density,
		Damping:       cfg.Rod.Damping,
		YoungsModulus: cfg.Rod.YoungsModulus,
		PoissonRatio:  cfg.Rod.PoissonRatio,
		InertiaFactor: cfg.Rod.InertiaFactor,
	}
	gravity := linalg.Vec{0, -cfg.Gravity, 0}

	c := sim.NewCollection()

	switch cfg.Scenario {
	case "rolling":
		// Rod lying on the plane y=0, pushed sideways so it first slides,
		// then rolls as friction converts slip into spin.
		spec.Start = linalg.Vec{0, cfg.Rod.Radius, -cfg.Rod.Length / 2}
		spec.Direction = linalg.Vec{0, 0, 1}
		spec.Normal = linalg.Vec{1, 0, 0}
		r, err := rod.NewStraightRod(spec)
		if err != nil {
			return scene{}, err
		}
		for i := range r.Velocity {
			r.Velocity[i] = linalg.Vec{cfg.Rod.Velocity, 0, 0}
		}
		if err := c.Append(r); err != nil {
			return scene{}, err
		}
		// Friction reads the normal load, so gravity registers first.
		if err := c.AddForcing(forces.NewGravity(r, gravity)); err != nil {
			return scene{}, err
		}
		mu := func(m float64) forces.MuSet {
			return forces.MuSet{Forward: m, Backward: m, Sideways: m}
		}
		plane := forces.NewFrictionPlane(r, forces.FrictionPlaneSpec{
			Stiffness:     cfg.Friction.Stiffness,
			Damping:       cfg.Friction.Damping,
			Origin:        linalg.Vec{},
			Normal:        linalg.Vec{0, 1, 0},
			SlipTolerance: cfg.Friction.SlipTolerance,
			Static:        mu(cfg.Friction.StaticMu),
			Kinetic:       mu(cfg.Friction.KineticMu),
		})
		if err := c.AddForcing(plane); err != nil {
			return scene{}, err
		}
		if err := c.Finalize(); err != nil {
			return scene{}, err
		}
		return scene{collection: c, rodBody: r}, nil

	case "falling":
		spec.Start = linalg.Vec{0, 1, -cfg.Rod.Length / 2}
		spec.Direction = linalg.Vec{0, 0, 1}
		spec.Normal = linalg.Vec{0, 1, 0}
		r, err := rod.NewStraightRod(spec)
		if err != nil {
			return scene{}, err
		}
		for i := range r.Velocity {
			r.Velocity[i] = linalg.Vec{0, -cfg.Rod.Velocity, 0}
		}
		if err := c.Append(r); err != nil {
			return scene{}, err
		}
		if err := c.AddForcing(forces.NewGravity(r, gravity)); err != nil {
			return scene{}, err
		}
		if err := c.Finalize(); err != nil {
			return scene{}, err
		}
		return scene{collection: c, rodBody: r}, nil

	case "cantilever":
		spec.Start = linalg.Vec{}
		spec.Direction = linalg.Vec{1, 0, 0}
		spec.Normal = linalg.Vec{0, 1, 0}
		r, err := rod.NewStraightRod(spec)
		if err != nil {
			return scene{}, err
		}
		if err := c.Append(r); err != nil {
			return scene{}, err
		}
		if err := c.AddForcing(forces.NewGravity(r, gravity)); err != nil {
			return scene{}, err
		}
		if err := c.AddConstraint(boundary.NewOneEndFixedRod(r)); err != nil {
			return scene{}, err
		}
		if err := c.Finalize(); err != nil {
			return scene{}, err
		}
		return scene{collection: c, rodBody: r}, nil

	default:
		return scene{}, fmt.Errorf("unknown scenario: %s", cfg.Scenario)
	}
}

func sceneMetrics(s scene) map[string]float64 {
	if s.sphere != nil {
		return map[string]float64{
			"rotational_energy": s.sphere.RotationalEnergy(),
			"spin_rate":         s.sphere.Omega.Norm(),
		}
	}
	r := s.rodBody
	com := r.CenterOfMass()
	return map[string]float64{
		"translational_energy": r.TranslationalEnergy(),
		"rotational_energy":    r.RotationalEnergy(),
		"shear_energy":         r.ShearEnergy(),
		"bending_energy":       r.BendingEnergy(),
		"com_height":           com[1],
		"com_speed":            r.MeanVelocity().Norm(),
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	stepper, err := getStepper(cfg.Stepper)
	if err != nil {
		return err
	}
	sc, err := buildScene(cfg)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s scenario...\n", cfg.Scenario)
	start := time.Now()

	result, err := sim.Integrate(context.Background(), stepper, sc.collection, sim.Config{
		FinalTime:     cfg.FinalTime,
		TotalSteps:    cfg.TotalSteps,
		RecordEvery:   cfg.RecordEvery,
		ValidateState: true,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	dt := cfg.FinalTime / float64(cfg.TotalSteps)
	metrics := sceneMetrics(sc)
	runID, err := st.Save(cfg.Scenario, cfg.Stepper, dt, cfg.FinalTime, metrics, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	if heights := meanHeightHistory(result); len(heights) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(heights,
			asciigraph.Height(8), asciigraph.Width(60),
			asciigraph.Caption("mean height over time")))
	}

	if jsonPath != "" {
		if err := store.ExportJSON(jsonPath, cfg.Scenario, cfg.Stepper, dt, cfg.FinalTime, metrics, result); err != nil {
			return err
		}
		fmt.Printf("exported JSON to %s\n", jsonPath)
	}
	if csvPath != "" {
		if err := store.ExportCSV(csvPath, result, 0); err != nil {
			return err
		}
		fmt.Printf("exported CSV to %s\n", csvPath)
	}
	if pngPath != "" {
		heights := meanHeightHistory(result)
		speeds := meanSpeedHistory(result)
		err := plot.TimeSeries(pngPath, cfg.Scenario+" run", "mean value", result.Times,
			plot.Series{Name: "height (m)", Values: heights},
			plot.Series{Name: "speed (m/s)", Values: speeds})
		if err != nil {
			return err
		}
		fmt.Printf("plotted to %s\n", pngPath)
	}

	return nil
}

func meanHeightHistory(result *sim.Result) []float64 {
	if len(result.Series) == 0 {
		return nil
	}
	series := result.Series[0]
	heights := make([]float64, len(series))
	for i, rec := range series {
		sum := 0.0
		for _, p := range rec.Snapshot.Positions {
			sum += p[1]
		}
		heights[i] = sum / float64(len(rec.Snapshot.Positions))
	}
	return heights
}

func meanSpeedHistory(result *sim.Result) []float64 {
	if len(result.Series) == 0 {
		return nil
	}
	series := result.Series[0]
	speeds := make([]float64, len(series))
	for i, rec := range series {
		var mean linalg.Vec
		for _, v := range rec.Snapshot.Velocities {
			mean = mean.Add(v)
		}
		speeds[i] = mean.Scale(1 / float64(len(rec.Snapshot.Velocities))).Norm()
	}
	return speeds
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, "rolling")
	if err != nil {
		return err
	}
	if cfg.Rod.Velocity == 0 {
		cfg.Rod.Velocity = 1.0
	}
	stepper, err := getStepper(cfg.Stepper)
	if err != nil {
		return err
	}
	if sweepCount < 2 || sweepMax <= sweepMin {
		return fmt.Errorf("invalid sweep range [%g, %g] with %d points", sweepMin, sweepMax, sweepCount)
	}

	factors := make([]float64, sweepCount)
	index := make(map[float64]int, sweepCount)
	for i := range factors {
		factors[i] = sweepMin + (sweepMax-sweepMin)*float64(i)/float64(sweepCount-1)
		index[factors[i]] = i
	}

	trans := make([]float64, sweepCount)
	rot := make([]float64, sweepCount)
	var mass float64

	fmt.Printf("sweeping %d inertia factors over [%g, %g]...\n", sweepCount, sweepMin, sweepMax)
	start := time.Now()

	_, err = sim.Sweep(context.Background(), factors, func(ctx context.Context, factor float64) (*sim.Result, error) {
		runCfg := *cfg
		runCfg.Rod.InertiaFactor = factor
		sc, err := buildScene(&runCfg)
		if err != nil {
			return nil, err
		}
		result, err := sim.Integrate(ctx, stepper, sc.collection, sim.Config{
			FinalTime:     runCfg.FinalTime,
			TotalSteps:    runCfg.TotalSteps,
			RecordEvery:   runCfg.TotalSteps,
			ValidateState: true,
		})
		if err != nil {
			return nil, err
		}
		i := index[factor]
		trans[i] = sc.rodBody.TranslationalEnergy()
		rot[i] = sc.rodBody.RotationalEnergy()
		if i == 0 {
			mass = sc.rodBody.TotalMass()
		}
		return result, nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	slip := cfg.Rod.Velocity
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FACTOR\tE_TRANS\tANALYTIC\tE_ROT\tANALYTIC")
	for i, f := range factors {
		denom := 1 + f/2
		wantTrans := 0.5 * mass * slip * slip / (denom * denom)
		wantRot := f / 2 * wantTrans
		fmt.Fprintf(w, "%.2f\t%.6f\t%.6f\t%.6f\t%.6f\n", f, trans[i], wantTrans, rot[i], wantRot)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if pngPath != "" {
		if err := plot.RollingSweep(pngPath, factors, trans, rot, mass, slip); err != nil {
			return err
		}
		fmt.Printf("plotted to %s\n", pngPath)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if cfg.Scenario == "spin" {
		return fmt.Errorf("live view follows a rod; use `rodsim run spin` instead")
	}
	stepper, err := getStepper(cfg.Stepper)
	if err != nil {
		return err
	}

	dt := cfg.FinalTime / float64(cfg.TotalSteps)
	build := func() (viz.Scene, error) {
		sc, err := buildScene(cfg)
		if err != nil {
			return viz.Scene{}, err
		}
		return viz.Scene{Collection: sc.collection, Rod: sc.rodBody}, nil
	}
	return viz.Run(cfg.Scenario, build, stepper, dt, stepsPerTick)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("no runs found")
			return nil
		}
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSTEPPER")
	for _, id := range runs {
		meta, err := st.Load(id)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.2e\t%s\n",
			meta.ID,
			meta.Scenario,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.FinalTime,
			meta.Dt,
			meta.Stepper,
		)
	}
	return w.Flush()
}
