// Package config loads CLI settings from config files, .env files and the
// environment.
package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem the CLI operates on. Tests swap in a memory fs.
var AppFs = afero.NewOsFs()

// Config holds the CLI configuration.
type Config struct {
	DescriptorPath  string
	RulesPath       string
	OutputDir       string
	PackageName     string
	Mode            string
	SizeCache       bool
	StripEnumPrefix bool
	FormatOutput    bool
}

// Load reads configuration from .tinypb.yaml (working directory, home
// directory, ~/.config/tinypb), the TINYPB_* environment and any .env
// files. Flags layered on top by the commands win over all of these.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".tinypb")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "tinypb"))

	viper.SetEnvPrefix("TINYPB")
	viper.AutomaticEnv()

	viper.SetDefault("descriptor_path", "descriptor.bin")
	viper.SetDefault("rules_path", "tinypb.rules.yaml")
	viper.SetDefault("output_dir", "./gen")
	viper.SetDefault("mode", "both")
	viper.SetDefault("format_output", true)

	// The config file is optional.
	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	// .env.local wins over .env.
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	return &Config{
		DescriptorPath:  viper.GetString("descriptor_path"),
		RulesPath:       viper.GetString("rules_path"),
		OutputDir:       viper.GetString("output_dir"),
		PackageName:     viper.GetString("package_name"),
		Mode:            viper.GetString("mode"),
		SizeCache:       viper.GetBool("size_cache"),
		StripEnumPrefix: viper.GetBool("strip_enum_prefix"),
		FormatOutput:    viper.GetBool("format_output"),
	}, nil
}

// Save writes the configuration to ~/.config/tinypb/.tinypb.yaml.
func Save(cfg *Config) error {
	viper.Set("descriptor_path", cfg.DescriptorPath)
	viper.Set("rules_path", cfg.RulesPath)
	viper.Set("output_dir", cfg.OutputDir)
	viper.Set("package_name", cfg.PackageName)
	viper.Set("mode", cfg.Mode)
	viper.Set("size_cache", cfg.SizeCache)
	viper.Set("strip_enum_prefix", cfg.StripEnumPrefix)
	viper.Set("format_output", cfg.FormatOutput)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}
	configDir := filepath.Join(home, ".config", "tinypb")
	if err := AppFs.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	return viper.WriteConfigAs(filepath.Join(configDir, ".tinypb.yaml"))
}
