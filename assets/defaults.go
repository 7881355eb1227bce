package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultValidatorRulesYAML contains the embedded default code validator rules.
//
//go:embed defaults/validator.yaml
var DefaultValidatorRulesYAML []byte
