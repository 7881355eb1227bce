package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/codeshai/assets"
	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/pkg/filesystem"
	"github.com/doeshing/codeshai/internal/ports"
)

// Validator implements the CodeValidator port with substring deny/allow lists.
// It is a heuristic pre-filter, not a sandbox.
type Validator struct {
	deny   []Rule
	allow  []Rule
	source string
}

// Rule is a single lowercase substring pattern.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message,omitempty"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		Deny  []Rule `yaml:"deny"`
		Allow []Rule `yaml:"allow"`
	} `yaml:"rules"`
}

// EmbeddedSource labels validators built from the compiled-in rules.
const EmbeddedSource = "embedded defaults"

// NewValidator loads rules from path. An empty or missing path falls back to
// the embedded defaults; a present but malformed file is an error.
func NewValidator(path string) (*Validator, error) {
	rules, source, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	return &Validator{
		deny:   normalize(rules.Rules.Deny),
		allow:  normalize(rules.Rules.Allow),
		source: source,
	}, nil
}

// Evaluate screens code. Deny wins; no match on either list rejects.
func (v *Validator) Evaluate(code string) domain.Verdict {
	lowered := strings.ToLower(code)

	for _, rule := range v.deny {
		if strings.Contains(lowered, rule.Pattern) {
			reason := domain.ReasonDenied
			if rule.Message != "" {
				reason = fmt.Sprintf("%s (%s)", domain.ReasonDenied, rule.Message)
			}
			return domain.Verdict{Accepted: false, Matched: rule.Pattern, Reason: reason}
		}
	}

	for _, rule := range v.allow {
		if strings.Contains(lowered, rule.Pattern) {
			return domain.Verdict{Accepted: true, Matched: rule.Pattern, Reason: domain.ReasonRecognized}
		}
	}

	return domain.Verdict{Accepted: false, Reason: domain.ReasonUnrecognized}
}

// IsAcceptable is the boolean form of Evaluate.
func (v *Validator) IsAcceptable(code string) bool {
	return v.Evaluate(code).Accepted
}

// Source reports where the rules came from.
func (v *Validator) Source() string {
	return v.source
}

// RuleCounts returns the number of deny and allow rules.
func (v *Validator) RuleCounts() (deny int, allow int) {
	return len(v.deny), len(v.allow)
}

func loadRules(path string) (RulesFile, string, error) {
	defaults, err := defaultRules()
	if err != nil {
		return RulesFile{}, "", err
	}
	if strings.TrimSpace(path) == "" {
		return defaults, EmbeddedSource, nil
	}

	path = filesystem.ExpandPath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults, EmbeddedSource, nil
		}
		return RulesFile{}, "", fmt.Errorf("read validator rules: %w", err)
	}

	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, "", fmt.Errorf("parse validator rules %s: %w", path, err)
	}
	if len(rules.Rules.Deny) == 0 {
		rules.Rules.Deny = defaults.Rules.Deny
	}
	if len(rules.Rules.Allow) == 0 {
		rules.Rules.Allow = defaults.Rules.Allow
	}
	return rules, path, nil
}

func defaultRules() (RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(assets.DefaultValidatorRulesYAML, &rules); err != nil {
		return RulesFile{}, fmt.Errorf("parse embedded validator rules: %w", err)
	}
	return rules, nil
}

func normalize(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.ToLower(strings.TrimSpace(rule.Pattern))
		if pattern == "" {
			continue
		}
		out = append(out, Rule{Pattern: pattern, Message: rule.Message})
	}
	return out
}

var _ ports.CodeValidator = (*Validator)(nil)
