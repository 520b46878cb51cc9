package robot

// OutputCalibration maps user units onto motor degrees for one output, e.g.
// joint degrees through a gear train.
type OutputCalibration struct {
	Scale    float64 `json:"scale,omitempty"`
	Reversed bool    `json:"reversed,omitempty"`
}

// Calibration holds calibration data for all outputs, keyed by output name.
// It is stored in the "calibration" object of the config file.
type Calibration map[OutputName]OutputCalibration

// Factor returns the signed scale. An unset scale counts as 1.
func (c OutputCalibration) Factor() float64 {
	f := c.Scale
	if f == 0 {
		f = 1
	}
	if c.Reversed {
		f = -f
	}
	return f
}

// Scales returns the factor of each output in index order. Outputs without
// calibration get 1.
func (c Calibration) Scales(outputs []OutputName) []float64 {
	scales := make([]float64, len(outputs))
	for i, name := range outputs {
		scales[i] = c[name].Factor()
	}
	return scales
}
