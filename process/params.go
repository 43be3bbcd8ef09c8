package process

// Mod1Params tunes the 30 V continuous etch recipe.
type Mod1Params struct {
	PlungeAfterSurfaceMM float64 // extra plunge after surface detection
	EtchThresholdA       float64 // current below which the etch is finished
	RetractSpeedMMS      float64 // upward speed during the etch phase
}

// Mod2Params tunes the 30 V hold plus pulsed 9 V recipe.
type Mod2Params struct {
	PlungeAfterSurfaceMM float64 // extra plunge after surface detection
	EtchThresholdA       float64 // current below which the 30 V hold ends
	PlungeAfterEtchMM    float64 // plunge between the hold and the pulses
	PulseCount           int     // number of 9 V pulses
	PulseOnS             float64 // pulse ON duration in seconds
	PulseOffS            float64 // pause between pulses in seconds
}

// Params is the live tuning set shared between the recipes and the
// on-device editor. Recipes read it at every decision point, so edits
// take effect on the next run without a restart.
type Params struct {
	Mod1 Mod1Params
	Mod2 Mod2Params
}

// DefaultParams returns the tuning used on the reference machine.
func DefaultParams() Params {
	return Params{
		Mod1: Mod1Params{
			PlungeAfterSurfaceMM: 4.0,
			EtchThresholdA:       0.05,
			RetractSpeedMMS:      0.015,
		},
		Mod2: Mod2Params{
			PlungeAfterSurfaceMM: 4.0,
			EtchThresholdA:       0.05,
			PlungeAfterEtchMM:    3.0,
			PulseCount:           5,
			PulseOnS:             0.5,
			PulseOffS:            2.0,
		},
	}
}
