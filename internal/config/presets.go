package config

var Presets = map[string]map[string]*Config{
	"solar": {
		"realtime": {
			Scenario: "solar", G: DefaultG, Theta: DefaultTheta, TimeScale: 1.0,
			MaxFrameSeconds: DefaultMaxFrame, Substepping: true,
			Duration: 365.0, FrameSeconds: DefaultFrame,
		},
		"fast": {
			Scenario: "solar", G: DefaultG, Theta: DefaultTheta, TimeScale: 1000.0,
			MaxFrameSeconds: DefaultMaxFrame, Substepping: true,
			Duration: 3650.0, FrameSeconds: DefaultFrame,
		},
		"precise": {
			Scenario: "solar", G: DefaultG, Theta: 0.1, TimeScale: 100.0,
			MaxFrameSeconds: DefaultMaxFrame, Substepping: true,
			Duration: 365.0, FrameSeconds: DefaultFrame,
		},
	},
	"binary": {
		"close": {
			Scenario: "binary", G: DefaultG, Theta: DefaultTheta, TimeScale: 10.0,
			MaxFrameSeconds: DefaultMaxFrame, Substepping: true,
			Duration: 100.0, FrameSeconds: DefaultFrame,
		},
	},
	"cluster": {
		"small": {
			Scenario: "cluster", G: DefaultG, Theta: DefaultTheta, TimeScale: 100.0,
			MaxFrameSeconds: DefaultMaxFrame, Substepping: true,
			Duration: 3650.0, FrameSeconds: DefaultFrame, Seed: 42,
		},
		"exact": {
			Scenario: "cluster", G: DefaultG, Theta: 0, TimeScale: 100.0,
			MaxFrameSeconds: DefaultMaxFrame, Substepping: true,
			Duration: 3650.0, FrameSeconds: DefaultFrame, Seed: 42,
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
