package models

// Measurement is a single point of an I-V sweep: the applied voltage and
// the current measured at it.
type Measurement struct {
	Voltage float64 `json:"voltage" doc:"Applied voltage in volts"`
	Current float64 `json:"current" doc:"Measured current in milliamps"`
}
