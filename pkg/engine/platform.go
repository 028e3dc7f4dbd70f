package engine

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Platform represents the current operating system platform.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// AudioSubsystem represents the available audio subsystem.
type AudioSubsystem string

const (
	AudioSubsystemALSA       AudioSubsystem = "alsa"
	AudioSubsystemPulseAudio AudioSubsystem = "pulseaudio"
	AudioSubsystemCoreAudio  AudioSubsystem = "coreaudio"
	AudioSubsystemWASAPI     AudioSubsystem = "wasapi"
	AudioSubsystemNone       AudioSubsystem = "none"
)

// PlatformInfo describes the host's audio capabilities.
type PlatformInfo struct {
	OS             Platform
	AudioSubsystem AudioSubsystem
	HasAudioDevice bool
	IsCI           bool
}

// IsCI detects if we're running in a CI environment or mock audio was
// requested explicitly.
func IsCI() bool {
	ciVars := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"BUILDKITE",
	}
	for _, envVar := range ciVars {
		if val := os.Getenv(envVar); val != "" && val != "false" {
			log.Debug("CI environment detected", "variable", envVar)
			return true
		}
	}

	if os.Getenv("MINDWAVE_MOCK_AUDIO") == "true" {
		log.Debug("Mock audio requested via environment variable")
		return true
	}
	return false
}

// DetectPlatform probes the platform and its audio capabilities.
func DetectPlatform() *PlatformInfo {
	info := &PlatformInfo{
		OS:   currentPlatform(),
		IsCI: IsCI(),
	}

	switch info.OS {
	case PlatformLinux:
		info.AudioSubsystem = detectLinuxAudio()
		info.HasAudioDevice = checkLinuxAudioDevices()
	case PlatformDarwin:
		info.AudioSubsystem = AudioSubsystemCoreAudio
		info.HasAudioDevice = true
	case PlatformWindows:
		info.AudioSubsystem = AudioSubsystemWASAPI
		info.HasAudioDevice = true
	default:
		info.AudioSubsystem = AudioSubsystemNone
	}

	log.Debug("Platform detected",
		"os", info.OS,
		"audio", info.AudioSubsystem,
		"has_device", info.HasAudioDevice,
		"is_ci", info.IsCI)
	return info
}

func currentPlatform() Platform {
	switch runtime.GOOS {
	case "linux":
		return PlatformLinux
	case "darwin":
		return PlatformDarwin
	case "windows":
		return PlatformWindows
	default:
		return PlatformUnknown
	}
}

func detectLinuxAudio() AudioSubsystem {
	if isCommandAvailable("pactl") {
		if output, err := exec.Command("pactl", "info").Output(); err == nil {
			if strings.Contains(string(output), "Server Name") {
				return AudioSubsystemPulseAudio
			}
		}
	}
	if _, err := os.Stat("/proc/asound"); err == nil {
		return AudioSubsystemALSA
	}
	return AudioSubsystemNone
}

func checkLinuxAudioDevices() bool {
	if entries, err := os.ReadDir("/dev/snd"); err == nil {
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), "pcm") {
				return true
			}
		}
	}
	if content, err := os.ReadFile("/proc/asound/cards"); err == nil {
		if len(content) > 0 && !strings.Contains(string(content), "no soundcards") {
			return true
		}
	}
	return false
}

func isCommandAvailable(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// ShouldUseMockAudio reports whether the auto engine should fall back to
// software rendering.
func (p *PlatformInfo) ShouldUseMockAudio() bool {
	return p.IsCI || p.AudioSubsystem == AudioSubsystemNone || !p.HasAudioDevice
}

// MockReason explains ShouldUseMockAudio for logging.
func (p *PlatformInfo) MockReason() string {
	switch {
	case p.IsCI:
		return "CI environment"
	case p.AudioSubsystem == AudioSubsystemNone:
		return "no audio subsystem"
	case !p.HasAudioDevice:
		return "no audio devices"
	default:
		return ""
	}
}

// BufferSizeMillis returns the recommended output buffer for the platform.
func (p *PlatformInfo) BufferSizeMillis() int {
	switch p.OS {
	case PlatformDarwin:
		return 100
	case PlatformWindows:
		return 80
	case PlatformLinux:
		if p.AudioSubsystem == AudioSubsystemPulseAudio {
			return 60
		}
		return 50
	default:
		return 50
	}
}

// RetryPolicy returns how often to retry opening the device. CoreAudio and
// a starting PulseAudio daemon both fail transiently.
func (p *PlatformInfo) RetryPolicy() (attempts int, delay time.Duration) {
	switch {
	case p.OS == PlatformDarwin:
		return 3, 200 * time.Millisecond
	case p.OS == PlatformWindows:
		return 2, 150 * time.Millisecond
	case p.OS == PlatformLinux && p.AudioSubsystem == AudioSubsystemPulseAudio:
		return 2, 100 * time.Millisecond
	default:
		return 1, 100 * time.Millisecond
	}
}

// String returns a string representation of the platform info.
func (p *PlatformInfo) String() string {
	return fmt.Sprintf("Platform{OS: %s, Audio: %s, HasDevice: %v, IsCI: %v}",
		p.OS, p.AudioSubsystem, p.HasAudioDevice, p.IsCI)
}
