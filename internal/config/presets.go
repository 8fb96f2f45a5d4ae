package config

var Presets = map[string]map[string]*Config{
	"rolling": {
		// Axial rod on a friction plane with an initial sideways push;
		// rolls without slipping once static friction catches.
		"slow": {
			Scenario: "rolling", Stepper: "verlet", FinalTime: 1.0, TotalSteps: 1000000, RecordEvery: 2000,
			Gravity: DefaultGravity,
			Rod: RodConfig{
				Elements: DefaultElements, Length: DefaultLength, Radius: DefaultRadius,
				Density: DefaultDensity, YoungsModulus: DefaultYoungs, PoissonRatio: DefaultPoisson,
				Damping: 1e-6, InertiaFactor: 1.0, Velocity: 0.1,
			},
			Friction: FrictionConfig{Stiffness: 10.0, Damping: 1e-4, SlipTolerance: 1e-8, StaticMu: 0.4, KineticMu: 0.2},
		},
		"fast": {
			Scenario: "rolling", Stepper: "verlet", FinalTime: 1.0, TotalSteps: 1000000, RecordEvery: 2000,
			Gravity: DefaultGravity,
			Rod: RodConfig{
				Elements: DefaultElements, Length: DefaultLength, Radius: DefaultRadius,
				Density: DefaultDensity, YoungsModulus: DefaultYoungs, PoissonRatio: DefaultPoisson,
				Damping: 1e-6, InertiaFactor: 1.0, Velocity: 1.0,
			},
			Friction: FrictionConfig{Stiffness: 10.0, Damping: 1e-4, SlipTolerance: 1e-8, StaticMu: 0.4, KineticMu: 0.2},
		},
	},
	"falling": {
		"short": {
			Scenario: "falling", Stepper: "verlet", FinalTime: 0.5, TotalSteps: 50000, RecordEvery: 100,
			Gravity: DefaultGravity,
			Rod: RodConfig{
				Elements: 10, Length: 0.5, Radius: 0.02,
				Density: 1500, YoungsModulus: 1e6, PoissonRatio: DefaultPoisson,
			},
		},
		"long": {
			Scenario: "falling", Stepper: "pefrl", FinalTime: 2.0, TotalSteps: 200000, RecordEvery: 400,
			Gravity: DefaultGravity,
			Rod: RodConfig{
				Elements: 20, Length: 1.0, Radius: 0.02,
				Density: 1500, YoungsModulus: 1e6, PoissonRatio: DefaultPoisson,
			},
		},
	},
	"spin": {
		"steady": {
			Scenario: "spin", Stepper: "verlet", FinalTime: 1.0, TotalSteps: 10000, RecordEvery: 20,
			Rod: RodConfig{Radius: 0.1, Density: 2000, Velocity: 5.0},
		},
	},
	"cantilever": {
		"sag": {
			Scenario: "cantilever", Stepper: "verlet", FinalTime: 0.2, TotalSteps: 100000, RecordEvery: 200,
			Gravity: DefaultGravity,
			Rod: RodConfig{
				Elements: 20, Length: 0.5, Radius: 0.01,
				Density: 2000, YoungsModulus: 1e7, PoissonRatio: DefaultPoisson, Damping: 0.1,
			},
		},
	},
}

func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	return names
}
