package brainwave

import (
	"fmt"
	"sort"
	"strings"
)

// Preset is a named, ready to play parameter set.
type Preset struct {
	Name     string
	Keywords []string
	Params   Parameters
}

var presets = []Preset{
	{
		Name:     "sleep",
		Keywords: []string{"sleep", "tired", "insomnia", "rest", "exhausted", "night", "drowsy"},
		Params: Parameters{
			Mood:          "deep sleep",
			WaveType:      WaveDelta,
			BinauralBeat:  2.5,
			BaseFrequency: 150,
			Color:         "#6366F1",
			Description: "**Delta** waves dominate dreamless sleep. A slow beat under a low " +
				"carrier helps the body wind down and stay down.",
		},
	},
	{
		Name:     "meditate",
		Keywords: []string{"meditate", "meditation", "spiritual", "dream", "creative", "intuition", "trance"},
		Params: Parameters{
			Mood:          "meditation",
			WaveType:      WaveTheta,
			BinauralBeat:  6,
			BaseFrequency: 200,
			Color:         "#8B5CF6",
			Description: "**Theta** sits at the edge of sleep. It is linked to deep " +
				"meditation, imagery and free association.",
		},
	},
	{
		Name:     "relax",
		Keywords: []string{"relax", "calm", "anxious", "anxiety", "stress", "stressed", "unwind", "peace", "chill"},
		Params: Parameters{
			Mood:          "calm",
			WaveType:      WaveAlpha,
			BinauralBeat:  10,
			BaseFrequency: 220,
			Color:         DefaultColor,
			Description: "**Alpha** is the resting rhythm of an awake, unhurried mind. " +
				"Use it to take the edge off a busy day.",
		},
	},
	{
		Name:     "focus",
		Keywords: []string{"focus", "study", "work", "concentrate", "productive", "alert", "code", "read"},
		Params: Parameters{
			Mood:          "focus",
			WaveType:      WaveBeta,
			BinauralBeat:  18,
			BaseFrequency: 250,
			Color:         "#F59E0B",
			Description: "Low **Beta** accompanies active, outward attention. Good for " +
				"reading, writing and problem solving.",
		},
	},
	{
		Name:     "energize",
		Keywords: []string{"energy", "energize", "motivated", "workout", "awake", "pumped", "sluggish"},
		Params: Parameters{
			Mood:          "energized",
			WaveType:      WaveBeta,
			BinauralBeat:  30,
			BaseFrequency: 320,
			Color:         "#EF4444",
			Description: "High **Beta** for when you need a push. Keep sessions short; " +
				"it can feel edgy.",
		},
	},
	{
		Name:     "insight",
		Keywords: []string{"insight", "memory", "learn", "peak", "flow", "sharp", "clarity"},
		Params: Parameters{
			Mood:          "insight",
			WaveType:      WaveGamma,
			BinauralBeat:  40,
			BaseFrequency: 300,
			Color:         "#10B981",
			Description: "**Gamma** bursts show up during moments of insight and " +
				"cross-modal binding. The 40 Hz beat is the most studied.",
		},
	},
}

// Presets returns the built-in presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetNames returns the preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// LookupPreset finds a preset by name, ignoring case.
func LookupPreset(name string) (Preset, error) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
}
