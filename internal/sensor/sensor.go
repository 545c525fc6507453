// Package sensor reads the host temperature. Every reader is optional: a
// missing tool or file yields ErrUnavailable and the caller skips the check.
package sensor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ErrUnavailable means the host has no usable temperature source.
var ErrUnavailable = errors.New("temperature sensor unavailable")

// Sensor returns a temperature in degrees Celsius.
type Sensor interface {
	Read(ctx context.Context) (float64, error)
	Name() string
}

// VcgencmdSensor reads the Raspberry Pi SoC temperature via `vcgencmd measure_temp`.
type VcgencmdSensor struct {
	Path string
}

func NewVcgencmdSensor(path string) *VcgencmdSensor {
	if path == "" {
		path = "vcgencmd"
	}
	return &VcgencmdSensor{Path: path}
}

func (s *VcgencmdSensor) Name() string { return "vcgencmd" }

func (s *VcgencmdSensor) Read(ctx context.Context) (float64, error) {
	out, err := exec.CommandContext(ctx, s.Path, "measure_temp").Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return 0, ErrUnavailable
		}
		return 0, fmt.Errorf("vcgencmd: %w", err)
	}
	return ParseVcgencmd(string(out))
}

// ParseVcgencmd extracts the value from output like "temp=48.3'C".
func ParseVcgencmd(out string) (float64, error) {
	start := strings.Index(out, "=")
	end := strings.Index(out, "'")
	if start < 0 || end <= start {
		return 0, fmt.Errorf("unexpected vcgencmd output %q", strings.TrimSpace(out))
	}
	v, err := strconv.ParseFloat(out[start+1:end], 64)
	if err != nil {
		return 0, fmt.Errorf("parse vcgencmd output %q: %w", strings.TrimSpace(out), err)
	}
	return v, nil
}

// ThermalZoneSensor reads a Linux thermal zone file, which holds millidegrees.
type ThermalZoneSensor struct {
	Path string
}

func NewThermalZoneSensor(path string) *ThermalZoneSensor {
	if path == "" {
		path = "/sys/class/thermal/thermal_zone0/temp"
	}
	return &ThermalZoneSensor{Path: path}
}

func (s *ThermalZoneSensor) Name() string { return "thermal_zone" }

func (s *ThermalZoneSensor) Read(_ context.Context) (float64, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrUnavailable
		}
		return 0, fmt.Errorf("read %s: %w", s.Path, err)
	}
	milli, err := strconv.ParseFloat(string(bytes.TrimSpace(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return milli / 1000, nil
}

// Fixed is a Sensor that always returns the same reading or error.
type Fixed struct {
	Celsius float64
	Err     error
}

func (f Fixed) Name() string { return "fixed" }

func (f Fixed) Read(_ context.Context) (float64, error) { return f.Celsius, f.Err }

// New returns the sensor for kind: "vcgencmd", "thermal_zone", or "" / "none"
// for no sensor (nil).
func New(kind, path string) (Sensor, error) {
	switch kind {
	case "", "none":
		return nil, nil
	case "vcgencmd":
		return NewVcgencmdSensor(path), nil
	case "thermal_zone":
		return NewThermalZoneSensor(path), nil
	default:
		return nil, fmt.Errorf("unknown sensor %q", kind)
	}
}
