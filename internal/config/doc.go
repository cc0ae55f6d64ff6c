// Package config provides configuration management for loadlens.
//
// Configuration comes from three layers: documented default constants,
// an optional YAML file (.loadlens) that can override thresholds, and
// CLI flags. Validation uses package-level sentinel errors so callers
// can match failures with errors.Is.
package config
