// Package brainwave holds the parameter model, state and error types shared
// by the playback core and its front ends.
package brainwave

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultColor is used when a parameter set carries no usable color.
const DefaultColor = "#A78BFA"

// WaveType is the brainwave band a parameter set targets. It is only used
// for display.
type WaveType int

const (
	// WaveUnknown is the zero value and is never valid.
	WaveUnknown WaveType = iota
	WaveDelta
	WaveTheta
	WaveAlpha
	WaveBeta
	WaveGamma
)

var waveNames = map[WaveType]string{
	WaveDelta: "Delta",
	WaveTheta: "Theta",
	WaveAlpha: "Alpha",
	WaveBeta:  "Beta",
	WaveGamma: "Gamma",
}

// WaveTypes lists the valid wave types from slowest to fastest.
func WaveTypes() []WaveType {
	return []WaveType{WaveDelta, WaveTheta, WaveAlpha, WaveBeta, WaveGamma}
}

// String returns the display name of the wave type.
func (w WaveType) String() string {
	if name, ok := waveNames[w]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether w is one of the five bands.
func (w WaveType) Valid() bool {
	_, ok := waveNames[w]
	return ok
}

// BeatRange returns the beat frequency band, in Hz, usually associated
// with the wave type.
func (w WaveType) BeatRange() (lo, hi float64) {
	switch w {
	case WaveDelta:
		return 1, 4
	case WaveTheta:
		return 4, 8
	case WaveAlpha:
		return 8, 12
	case WaveBeta:
		return 13, 38
	case WaveGamma:
		return 39, 42
	default:
		return 0, 0
	}
}

// ParseWaveType parses a wave type name, ignoring case.
func ParseWaveType(s string) (WaveType, error) {
	fold := cases.Fold()
	in := fold.String(strings.TrimSpace(s))
	for w, name := range waveNames {
		if fold.String(name) == in {
			return w, nil
		}
	}
	return WaveUnknown, fmt.Errorf("%w: %q", ErrUnknownWaveType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (w WaveType) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWaveType, int(w))
	}
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WaveType) UnmarshalText(text []byte) error {
	parsed, err := ParseWaveType(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (w *WaveType) UnmarshalYAML(value *yaml.Node) error {
	return w.UnmarshalText([]byte(value.Value))
}

// MarshalYAML implements yaml.Marshaler.
func (w WaveType) MarshalYAML() (interface{}, error) {
	b, err := w.MarshalText()
	return string(b), err
}

// Parameters describe one binaural beat. Values are immutable once handed
// to the playback controller.
type Parameters struct {
	Mood          string   `yaml:"mood" json:"mood"`
	WaveType      WaveType `yaml:"waveType" json:"waveType"`
	BinauralBeat  float64  `yaml:"binauralBeat" json:"binauralBeat"`
	BaseFrequency float64  `yaml:"baseFrequency" json:"baseFrequency"`
	Description   string   `yaml:"description" json:"description"`
	Color         string   `yaml:"color" json:"color"`
}

// LeftFrequency is the tone sent to channel 0.
func (p Parameters) LeftFrequency() float64 {
	return p.BaseFrequency
}

// RightFrequency is the tone sent to channel 1.
func (p Parameters) RightFrequency() float64 {
	return p.BaseFrequency + p.BinauralBeat
}

// Validate rejects parameter sets that cannot be played.
func (p Parameters) Validate() error {
	if !p.WaveType.Valid() {
		return NewError(fmt.Errorf("%w: missing or unknown wave type", ErrInvalidParameters), "params", "validate").
			WithContext("wave_type", int(p.WaveType))
	}
	if !positive(p.BaseFrequency) {
		return NewError(fmt.Errorf("%w: base frequency must be positive, got %v", ErrInvalidParameters, p.BaseFrequency), "params", "validate").
			WithContext("base_frequency", p.BaseFrequency)
	}
	if !positive(p.BinauralBeat) {
		return NewError(fmt.Errorf("%w: binaural beat must be positive, got %v", ErrInvalidParameters, p.BinauralBeat), "params", "validate").
			WithContext("binaural_beat", p.BinauralBeat)
	}
	return nil
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Warnings lists soft problems, such as a beat outside the usual band for
// its wave type. They never prevent playback.
func (p Parameters) Warnings() []string {
	var out []string
	if lo, hi := p.WaveType.BeatRange(); hi > 0 && (p.BinauralBeat < lo || p.BinauralBeat > hi) {
		out = append(out, fmt.Sprintf("%.2f Hz is outside the %s band (%g-%g Hz)", p.BinauralBeat, p.WaveType, lo, hi))
	}
	if p.BaseFrequency < MinCarrier || p.BaseFrequency > MaxCarrier {
		out = append(out, fmt.Sprintf("carrier %.0f Hz is outside %d-%d Hz", p.BaseFrequency, MinCarrier, MaxCarrier))
	}
	if p.Color != "" && !isHexColor(p.Color) {
		out = append(out, fmt.Sprintf("color %q is not a hex color", p.Color))
	}
	return out
}

// Carrier frequencies outside this range still play but are hard to hear
// as a beat.
const (
	MinCarrier = 100
	MaxCarrier = 500
)

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func isHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// DisplayColor returns the hex color to draw with.
func (p Parameters) DisplayColor() string {
	if isHexColor(p.Color) {
		return p.Color
	}
	return DefaultColor
}

// Title is the mood in title case, for headings.
func (p Parameters) Title() string {
	if p.Mood == "" {
		return p.WaveType.String()
	}
	return cases.Title(language.English).String(p.Mood)
}

// BeatLabel formats the beat frequency the way it is displayed.
func (p Parameters) BeatLabel() string {
	return fmt.Sprintf("%.2f Hz", p.BinauralBeat)
}

// BaseLabel formats the carrier frequency the way it is displayed.
func (p Parameters) BaseLabel() string {
	return fmt.Sprintf("%.0f Hz", p.BaseFrequency)
}

// String returns a one line summary.
func (p Parameters) String() string {
	return fmt.Sprintf("%s %s beat over %s", p.WaveType, p.BeatLabel(), p.BaseLabel())
}

// ParseParameters decodes a YAML or JSON document.
func ParseParameters(data []byte) (Parameters, error) {
	var p Parameters
	trimmed := strings.TrimSpace(string(data))
	var err error
	if strings.HasPrefix(trimmed, "{") {
		err = json.Unmarshal(data, &p)
	} else {
		err = yaml.Unmarshal(data, &p)
	}
	if err != nil {
		return Parameters{}, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// LoadParametersFile reads and validates a parameters file.
func LoadParametersFile(path string) (Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Parameters{}, fmt.Errorf("unable to read parameters file: %w", err)
	}
	p, err := ParseParameters(data)
	if err != nil {
		return Parameters{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// YAML encodes the parameters in the file format read by
// LoadParametersFile.
func (p Parameters) YAML() (string, error) {
	b, err := yaml.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("unable to encode parameters: %w", err)
	}
	return string(b), nil
}
