package config

import (
	"fmt"
	"strings"
)

// QualityPreset represents a named trade-off between accuracy and cost.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityNormal QualityPreset = "normal"
	QualityHigh   QualityPreset = "high"
	QualityExact  QualityPreset = "exact"
)

// Qualities lists the presets in increasing cost.
var Qualities = []QualityPreset{QualityLow, QualityNormal, QualityHigh, QualityExact}

// ParseQuality resolves a preset name. The empty string means normal.
func ParseQuality(name string) (QualityPreset, error) {
	if name == "" {
		return QualityNormal, nil
	}
	q := QualityPreset(strings.ToLower(name))
	for _, known := range Qualities {
		if q == known {
			return q, nil
		}
	}
	return "", fmt.Errorf("unknown quality %q (expected low, normal, high or exact)", name)
}

// ApplyQualityPreset modifies the solver settings of cfg for a preset.
// Normal leaves the configuration as loaded.
func ApplyQualityPreset(cfg *RopeConfig, preset QualityPreset) {
	cfg.Quality = preset

	switch preset {
	case QualityLow:
		cfg.Physics.Iterations = max(1, cfg.Physics.Iterations/4)
		cfg.Physics.StepTime *= 2
	case QualityHigh:
		cfg.Physics.Iterations *= 2
		cfg.Physics.StepTime /= 2
	case QualityExact:
		cfg.Physics.Iterations *= 2
		cfg.Physics.StepTime /= 2
		cfg.Collision.SnapshotInterval = 0 // Recapture every tick
	}

	if cfg.Physics.MaxStep < cfg.Physics.StepTime {
		cfg.Physics.MaxStep = cfg.Physics.StepTime
	}
}
