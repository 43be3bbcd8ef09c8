package core

import "math"

// BaselineCell holds the no-load RMS current measured during homing
// calibration. It is written exactly once per calibration run and read by
// every corrected-current computation afterwards. Execution is
// single-threaded and cooperative, so a plain cell is sufficient; the
// point of the type is making the shared handle explicit at every call
// site instead of hiding it in a package global.
type BaselineCell struct {
	value float64
}

// Set stores the calibrated baseline current in amperes.
func (c *BaselineCell) Set(v float64) {
	c.value = v
}

// Get returns the calibrated baseline current in amperes.
func (c *BaselineCell) Get() float64 {
	return c.value
}

// CurrentSensorConfig carries the analog front-end parameters.
// Zero-valued fields are replaced with defaults matching a 10-bit ADC
// sampled at 5 kHz over one 50 Hz period.
type CurrentSensorConfig struct {
	Channel     ADCChannel
	VRef        float64 // ADC reference voltage in volts
	FullScale   float64 // maximum ADC code (e.g. 1023 for 10-bit)
	Cal         float64 // calibration factor, RMS volts to RMS amperes
	WindowTicks Ticks   // RMS integration window length
	SampleTicks Ticks   // interval between ADC samples
}

func (cfg *CurrentSensorConfig) applyDefaults() {
	if cfg.VRef == 0 {
		cfg.VRef = 5.0
	}
	if cfg.FullScale == 0 {
		cfg.FullScale = 1023
	}
	if cfg.Cal == 0 {
		cfg.Cal = 0.90
	}
	if cfg.WindowTicks == 0 {
		cfg.WindowTicks = 20000 // one period at 50 Hz
	}
	if cfg.SampleTicks == 0 {
		cfg.SampleTicks = 200 // 5 kHz
	}
}

// CurrentSensor performs non-blocking window-based RMS current measurement
// from one ADC channel. Update must be called every loop tick; it samples
// the channel on a fixed interval, accumulates min/max and the first two
// moments of the signal over a fixed window, and computes peak-to-peak
// voltage and true AC RMS current each time the window closes. The RMS of
// the AC component is sqrt(<v^2> - <v>^2), which removes whatever DC bias
// the sensor signal rides on.
type CurrentSensor struct {
	cfg      CurrentSensorConfig
	baseline *BaselineCell

	enabled bool

	windowStart Ticks
	nextSample  Ticks

	rawMin  int
	rawMax  int
	sumV    float64
	sumV2   float64
	samples uint32

	vpp  float64
	irms float64
}

// NewCurrentSensor creates a sensor reading the configured channel.
// The baseline cell is shared with the calibration sequence; corrected
// readings subtract its current value.
func NewCurrentSensor(cfg CurrentSensorConfig, baseline *BaselineCell) *CurrentSensor {
	cfg.applyDefaults()
	return &CurrentSensor{
		cfg:      cfg,
		baseline: baseline,
	}
}

// Begin configures the ADC channel and resets window statistics. The
// sensor starts disabled; callers enable it only around the phases where
// current is meaningful.
func (s *CurrentSensor) Begin() error {
	if err := MustADC().ConfigureChannel(s.cfg.Channel); err != nil {
		return err
	}
	now := Now()
	s.windowStart = now
	s.nextSample = now
	s.resetWindow()
	s.enabled = false
	return nil
}

func (s *CurrentSensor) resetWindow() {
	s.rawMin = int(s.cfg.FullScale)
	s.rawMax = 0
	s.sumV = 0
	s.sumV2 = 0
	s.samples = 0
}

// SetEnabled enables or disables measurement updates. When disabled,
// Update does nothing and the last computed results are frozen.
func (s *CurrentSensor) SetEnabled(on bool) {
	s.enabled = on
}

// IsEnabled reports whether measurement updates are active.
func (s *CurrentSensor) IsEnabled() bool {
	return s.enabled
}

// Update performs one non-blocking measurement step. Both time checks use
// wraparound-safe signed differences, and both deadlines advance by their
// fixed period rather than to "now", so neither the sample rate nor the
// window boundary drifts.
func (s *CurrentSensor) Update() {
	if !s.enabled {
		return
	}
	now := Now()

	if Since(now, s.nextSample) >= 0 {
		s.nextSample += s.cfg.SampleTicks

		raw, err := MustADC().ReadRaw(s.cfg.Channel)
		if err == nil {
			code := int(raw)
			if code < s.rawMin {
				s.rawMin = code
			}
			if code > s.rawMax {
				s.rawMax = code
			}

			// Voltage including DC bias
			v := float64(code) * (s.cfg.VRef / s.cfg.FullScale)
			s.sumV += v
			s.sumV2 += v * v
			s.samples++
		}
	}

	if Since(now, s.windowStart) >= int32(s.cfg.WindowTicks) {
		s.windowStart += s.cfg.WindowTicks

		span := s.rawMax - s.rawMin
		if span < 0 {
			span = 0 // no samples this window
		}
		s.vpp = float64(span) * (s.cfg.VRef / s.cfg.FullScale)

		if s.samples > 0 {
			meanV := s.sumV / float64(s.samples)
			meanV2 := s.sumV2 / float64(s.samples)

			// Variance of the signal: <v^2> - <v>^2. Rounding can push
			// this slightly negative for a clean DC input.
			variance := meanV2 - meanV*meanV
			if variance < 0 {
				variance = 0
			}

			s.irms = s.cfg.Cal * math.Sqrt(variance)
		}

		s.resetWindow()
	}
}

// LastVpp returns the peak-to-peak voltage of the most recently completed
// window.
func (s *CurrentSensor) LastVpp() float64 {
	return s.vpp
}

// LastIrms returns the uncorrected RMS current of the most recently
// completed window.
func (s *CurrentSensor) LastIrms() float64 {
	return s.irms
}

// CorrectedIrms returns the baseline-corrected RMS current, clamped to
// zero so sensor noise near the no-load level never reads negative.
func (s *CurrentSensor) CorrectedIrms() float64 {
	i := s.irms - s.baseline.Get()
	if i < 0 {
		i = 0
	}
	return i
}
