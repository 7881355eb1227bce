package domain

// Config mirrors ~/.codeshai/config.yaml.
type Config struct {
	ConfigFormatVersion string                      `yaml:"config_format_version"`
	Preferences         Preferences                 `yaml:"preferences"`
	Providers           map[string]ProviderSettings `yaml:"providers,omitempty"`
	Generation          GenerationSettings          `yaml:"generation"`
	Execution           ExecutionSettings           `yaml:"execution"`
	Security            SecuritySettings            `yaml:"security"`
	Storage             StorageSettings             `yaml:"storage"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultProvider      string `yaml:"default_provider"`
	ConfirmBeforeExecute bool   `yaml:"confirm_before_execute"`
}

// ProviderSettings overrides the built-in provider endpoints.
type ProviderSettings struct {
	Endpoint        string `yaml:"endpoint,omitempty"`
	CatalogEndpoint string `yaml:"catalog_endpoint,omitempty"`
}

// GenerationSettings bounds provider calls.
type GenerationSettings struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	MaxTokens      int `yaml:"max_tokens"`
}

// ExecutionSettings controls how generated code runs.
type ExecutionSettings struct {
	Interpreters      []string `yaml:"interpreters"`
	TimeoutSeconds    int      `yaml:"timeout_seconds"`
	WorkingDir        string   `yaml:"working_dir"`
	RequireValidation bool     `yaml:"require_validation"`
}

// SecuritySettings points at the validator rules.
type SecuritySettings struct {
	RulesFile string `yaml:"rules_file"`
}

// StorageSettings locates the settings database.
type StorageSettings struct {
	SettingsDB string `yaml:"settings_db"`
}
