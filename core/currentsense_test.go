package core

import (
	"math"
	"testing"
)

func testSensorConfig() CurrentSensorConfig {
	return CurrentSensorConfig{
		Channel:     2,
		VRef:        1.0,
		FullScale:   1000,
		Cal:         1.0,
		WindowTicks: 100,
		SampleTicks: 10,
	}
}

// runSensor advances the clock in fixed steps and ticks the sensor once
// per step, inclusive of both endpoints.
func runSensor(s *CurrentSensor, from, to, step Ticks) {
	for t := from; Since(to, t) >= 0; t += step {
		SetNow(t)
		s.Update()
	}
}

func TestCurrentSensorDisabledDoesNotSample(t *testing.T) {
	SetNow(0)
	adc := newMockADC(func() uint16 { return 500 })
	SetADCDriver(adc)

	s := NewCurrentSensor(testSensorConfig(), &BaselineCell{})
	if err := s.Begin(); err != nil {
		t.Fatal(err)
	}
	if s.IsEnabled() {
		t.Error("sensor should start disabled")
	}

	runSensor(s, 0, 200, 10)
	if adc.reads != 0 {
		t.Errorf("disabled sensor performed %d ADC reads", adc.reads)
	}
}

func TestCurrentSensorDCInput(t *testing.T) {
	SetNow(0)
	adc := newMockADC(func() uint16 { return 500 })
	SetADCDriver(adc)

	s := NewCurrentSensor(testSensorConfig(), &BaselineCell{})
	if err := s.Begin(); err != nil {
		t.Fatal(err)
	}
	s.SetEnabled(true)

	runSensor(s, 0, 100, 10)

	// A pure DC signal has no AC component
	if s.LastVpp() != 0 {
		t.Errorf("DC vpp: got %v, want 0", s.LastVpp())
	}
	if s.LastIrms() != 0 {
		t.Errorf("DC irms: got %v, want 0", s.LastIrms())
	}
	if adc.reads != 11 {
		t.Errorf("ADC reads: got %d, want 11", adc.reads)
	}
}

func TestCurrentSensorACInput(t *testing.T) {
	SetNow(0)
	cfg := testSensorConfig()

	var codes []uint16
	next := uint16(200)
	adc := newMockADC(func() uint16 {
		c := next
		codes = append(codes, c)
		if next == 200 {
			next = 400
		} else {
			next = 200
		}
		return c
	})
	SetADCDriver(adc)

	s := NewCurrentSensor(cfg, &BaselineCell{})
	if err := s.Begin(); err != nil {
		t.Fatal(err)
	}
	s.SetEnabled(true)

	runSensor(s, 0, 100, 10)

	// Peak-to-peak from the raw code span
	wantVpp := float64(400-200) * (cfg.VRef / cfg.FullScale)
	if !almostEqual(s.LastVpp(), wantVpp, 1e-9) {
		t.Errorf("AC vpp: got %v, want %v", s.LastVpp(), wantVpp)
	}

	// Recompute the RMS of the AC component from the codes the sensor saw
	var sum, sum2 float64
	for _, c := range codes {
		v := float64(c) * (cfg.VRef / cfg.FullScale)
		sum += v
		sum2 += v * v
	}
	n := float64(len(codes))
	mean := sum / n
	want := cfg.Cal * math.Sqrt(sum2/n-mean*mean)

	if !almostEqual(s.LastIrms(), want, 1e-9) {
		t.Errorf("AC irms: got %v, want %v", s.LastIrms(), want)
	}
}

func TestCurrentSensorWindowReset(t *testing.T) {
	SetNow(0)
	code := uint16(200)
	adc := newMockADC(func() uint16 { return code })
	SetADCDriver(adc)

	s := NewCurrentSensor(testSensorConfig(), &BaselineCell{})
	if err := s.Begin(); err != nil {
		t.Fatal(err)
	}
	s.SetEnabled(true)

	// First window: all samples at 200
	runSensor(s, 0, 100, 10)
	if s.LastVpp() != 0 {
		t.Fatalf("first window vpp: got %v, want 0", s.LastVpp())
	}

	// Second window: all samples at 700. If min/max leaked across the
	// window boundary the span would read 500 codes wide.
	code = 700
	runSensor(s, 110, 200, 10)
	if s.LastVpp() != 0 {
		t.Errorf("second window vpp: got %v, want 0", s.LastVpp())
	}
}

func TestCorrectedIrmsClampsAtZero(t *testing.T) {
	SetNow(0)
	adc := newMockADC(func() uint16 { return 500 })
	SetADCDriver(adc)

	baseline := &BaselineCell{}
	baseline.Set(0.25)

	s := NewCurrentSensor(testSensorConfig(), baseline)
	if err := s.Begin(); err != nil {
		t.Fatal(err)
	}
	s.SetEnabled(true)
	runSensor(s, 0, 100, 10)

	// DC input measures zero RMS, so the corrected value would be
	// negative without the clamp.
	if got := s.CorrectedIrms(); got != 0 {
		t.Errorf("corrected irms: got %v, want 0", got)
	}
}
