// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zap logger used for structural warnings.
// Progress output stays on plain writers; the structured log carries
// per-element and per-relation diagnostics.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a sugared logger. Mode "prod" selects zap's production
// config (JSON); anything else selects the development config.
func New(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
