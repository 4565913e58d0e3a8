package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SilenceConfig is the policy governing silence detection and timeline
// construction. Threshold and MinDuration are consumed by the detector;
// Padding, Accelerate and Fluid drive the timeline builder.
type SilenceConfig struct {
	// Threshold is the silence threshold in dB, always negative.
	Threshold float64 `yaml:"threshold" validate:"lt=0"`

	// MinDuration is the minimum silence length in seconds that the
	// detector reports as silent.
	MinDuration float64 `yaml:"min_duration" validate:"gt=0"`

	// Padding is the speech margin in seconds preserved adjacent to each
	// silent interval.
	Padding float64 `yaml:"padding" validate:"gte=0"`

	// Accelerate, when set, keeps silence and speeds it up by this factor
	// instead of removing it. Conventionally above 1.
	Accelerate *float64 `yaml:"accelerate" validate:"omitempty,gt=0"`

	// Fluid inserts eased speed ramps at the edges of each accelerated
	// silence block instead of an instantaneous speed jump. Only
	// meaningful when Accelerate is set.
	Fluid bool `yaml:"fluid"`
}

// DefaultSilenceConfig returns the stock detection policy: cut silence
// quieter than -40 dB lasting at least half a second, keeping 100 ms of
// margin around speech.
func DefaultSilenceConfig() SilenceConfig {
	return SilenceConfig{
		Threshold:   -40.0,
		MinDuration: 0.5,
		Padding:     0.1,
	}
}

// NewSilenceConfig validates the policy once at construction. Downstream
// code assumes it only ever sees values that passed this gate.
func NewSilenceConfig(cfg SilenceConfig) (SilenceConfig, error) {
	if err := validate.Struct(cfg); err != nil {
		return SilenceConfig{}, fmt.Errorf("invalid silence config: %w", err)
	}
	return cfg, nil
}

// AccelerateFactor returns the acceleration factor, or 0 when silence is
// removed rather than sped up.
func (c SilenceConfig) AccelerateFactor() float64 {
	if c.Accelerate == nil {
		return 0
	}
	return *c.Accelerate
}
