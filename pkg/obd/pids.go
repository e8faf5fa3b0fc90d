// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package obd

import (
	"fmt"
	"strconv"

	"github.com/Thermoquad/obdstat/pkg/elm327"
)

// Mode-01 responses echo the request: "41 0C 1A 2B" decodes to
// [0x41, 0x0C, 0x1A, 0x2B], so value bytes start at index 2.
const pidHeaderLen = 2

func shortBuffer(cmd elm327.Command, want, got int) error {
	return &elm327.CalculationError{
		Command: cmd.Text(),
		Reason:  fmt.Sprintf("need %d bytes, got %d", want, got),
	}
}

// units holds the metric/imperial toggle shared by commands whose readings
// have two customary unit systems.
type units struct {
	imperial bool
}

// SetImperialUnits switches the formatted result to imperial units.
func (u *units) SetImperialUnits(v bool) {
	u.imperial = v
}

// ImperialUnits reports whether imperial units are in use.
func (u *units) ImperialUnits() bool {
	return u.imperial
}

// EngineRPM reads engine speed (PID 0C): ((A*256)+B)/4 rpm.
type EngineRPM struct {
	elm327.Base
	rpm int
}

// NewEngineRPM creates an engine speed command.
func NewEngineRPM() *EngineRPM {
	return &EngineRPM{Base: elm327.NewBase("01 0C")}
}

func (c *EngineRPM) Name() string { return "Engine RPM" }

func (c *EngineRPM) Calculate(data []byte) error {
	if len(data) < pidHeaderLen+2 {
		return shortBuffer(c, pidHeaderLen+2, len(data))
	}
	c.rpm = (int(data[2])*256 + int(data[3])) / 4
	return nil
}

// RPM returns the last calculated engine speed.
func (c *EngineRPM) RPM() int { return c.rpm }

func (c *EngineRPM) FormattedResult() string {
	return fmt.Sprintf("%d%s", c.rpm, c.ResultUnit())
}

func (c *EngineRPM) CalculatedResult() string { return strconv.Itoa(c.rpm) }

func (c *EngineRPM) ResultUnit() string { return "RPM" }

// VehicleSpeed reads road speed (PID 0D): A km/h.
type VehicleSpeed struct {
	elm327.Base
	units
	speedKmh int
}

// NewVehicleSpeed creates a vehicle speed command.
func NewVehicleSpeed() *VehicleSpeed {
	return &VehicleSpeed{Base: elm327.NewBase("01 0D")}
}

func (c *VehicleSpeed) Name() string { return "Vehicle Speed" }

func (c *VehicleSpeed) Calculate(data []byte) error {
	if len(data) < pidHeaderLen+1 {
		return shortBuffer(c, pidHeaderLen+1, len(data))
	}
	c.speedKmh = int(data[2])
	return nil
}

// SpeedKmh returns the last reading in km/h regardless of the unit toggle.
func (c *VehicleSpeed) SpeedKmh() int { return c.speedKmh }

// SpeedMph returns the last reading converted to mph.
func (c *VehicleSpeed) SpeedMph() float64 { return float64(c.speedKmh) * 0.621371 }

func (c *VehicleSpeed) FormattedResult() string {
	if c.imperial {
		return fmt.Sprintf("%.2f%s", c.SpeedMph(), c.ResultUnit())
	}
	return fmt.Sprintf("%d%s", c.speedKmh, c.ResultUnit())
}

func (c *VehicleSpeed) CalculatedResult() string {
	if c.imperial {
		return strconv.FormatFloat(c.SpeedMph(), 'f', 2, 64)
	}
	return strconv.Itoa(c.speedKmh)
}

func (c *VehicleSpeed) ResultUnit() string {
	if c.imperial {
		return "mph"
	}
	return "km/h"
}

// CoolantTemperature reads engine coolant temperature (PID 05): A-40 °C.
type CoolantTemperature struct {
	elm327.Base
	units
	celsius float64
}

// NewCoolantTemperature creates a coolant temperature command.
func NewCoolantTemperature() *CoolantTemperature {
	return &CoolantTemperature{Base: elm327.NewBase("01 05")}
}

func (c *CoolantTemperature) Name() string { return "Engine Coolant Temperature" }

func (c *CoolantTemperature) Calculate(data []byte) error {
	if len(data) < pidHeaderLen+1 {
		return shortBuffer(c, pidHeaderLen+1, len(data))
	}
	c.celsius = float64(data[2]) - 40
	return nil
}

// Celsius returns the last reading in °C regardless of the unit toggle.
func (c *CoolantTemperature) Celsius() float64 { return c.celsius }

// Fahrenheit returns the last reading converted to °F.
func (c *CoolantTemperature) Fahrenheit() float64 { return c.celsius*1.8 + 32 }

func (c *CoolantTemperature) FormattedResult() string {
	if c.imperial {
		return fmt.Sprintf("%.0f%s", c.Fahrenheit(), c.ResultUnit())
	}
	return fmt.Sprintf("%.0f%s", c.celsius, c.ResultUnit())
}

func (c *CoolantTemperature) CalculatedResult() string {
	if c.imperial {
		return strconv.FormatFloat(c.Fahrenheit(), 'f', 0, 64)
	}
	return strconv.FormatFloat(c.celsius, 'f', 0, 64)
}

func (c *CoolantTemperature) ResultUnit() string {
	if c.imperial {
		return "°F"
	}
	return "°C"
}

// ThrottlePosition reads throttle opening (PID 11): A*100/255 percent.
type ThrottlePosition struct {
	elm327.Base
	percent float64
}

// NewThrottlePosition creates a throttle position command.
func NewThrottlePosition() *ThrottlePosition {
	return &ThrottlePosition{Base: elm327.NewBase("01 11")}
}

func (c *ThrottlePosition) Name() string { return "Throttle Position" }

func (c *ThrottlePosition) Calculate(data []byte) error {
	if len(data) < pidHeaderLen+1 {
		return shortBuffer(c, pidHeaderLen+1, len(data))
	}
	c.percent = float64(data[2]) * 100.0 / 255.0
	return nil
}

// Percent returns the last calculated throttle opening.
func (c *ThrottlePosition) Percent() float64 { return c.percent }

func (c *ThrottlePosition) FormattedResult() string {
	return fmt.Sprintf("%.1f%s", c.percent, c.ResultUnit())
}

func (c *ThrottlePosition) CalculatedResult() string {
	return strconv.FormatFloat(c.percent, 'f', 1, 64)
}

func (c *ThrottlePosition) ResultUnit() string { return "%" }

// ModuleVoltage reads control module supply voltage (PID 42):
// ((A*256)+B)/1000 volts.
type ModuleVoltage struct {
	elm327.Base
	volts float64
}

// NewModuleVoltage creates a control module voltage command.
func NewModuleVoltage() *ModuleVoltage {
	return &ModuleVoltage{Base: elm327.NewBase("01 42")}
}

func (c *ModuleVoltage) Name() string { return "Control Module Voltage" }

func (c *ModuleVoltage) Calculate(data []byte) error {
	if len(data) < pidHeaderLen+2 {
		return shortBuffer(c, pidHeaderLen+2, len(data))
	}
	c.volts = float64(int(data[2])*256+int(data[3])) / 1000.0
	return nil
}

// Volts returns the last calculated module voltage.
func (c *ModuleVoltage) Volts() float64 { return c.volts }

func (c *ModuleVoltage) FormattedResult() string {
	return fmt.Sprintf("%.2f%s", c.volts, c.ResultUnit())
}

func (c *ModuleVoltage) CalculatedResult() string {
	return strconv.FormatFloat(c.volts, 'f', 2, 64)
}

func (c *ModuleVoltage) ResultUnit() string { return "V" }
