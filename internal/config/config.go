// Copyright 2026 Freehold Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "freehold.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

// RunMode represents the operational mode of the freehold node
type RunMode string

const (
	RunModeProd RunMode = "prod" // Production mode (default)
	RunModeDev  RunMode = "dev"  // Development mode (pre-bootstrapped admin)
	RunModeTest RunMode = "test" // Test mode
)

// Valid returns true if the RunMode is a known valid mode
func (m RunMode) Valid() bool {
	switch m {
	case RunModeProd, RunModeDev, RunModeTest, "":
		return true
	default:
		return false
	}
}

// IsDevMode returns true if the mode enables development behaviors
func (m RunMode) IsDevMode() bool {
	return m == RunModeDev
}

type Config struct {
	ApiListenAddress string  `yaml:"apiListenAddress" split_words:"true"`
	BindAddr         string  `yaml:"bindAddr"         split_words:"true"`
	BootstrapAdmin   string  `yaml:"bootstrapAdmin"   split_words:"true"`
	ShutdownTimeout  string  `yaml:"shutdownTimeout"  split_words:"true"`
	MetricsPort      uint    `yaml:"metricsPort"      split_words:"true"`
	Tracing          bool    `yaml:"tracing"`
	TracingStdout    bool    `yaml:"tracingStdout"    split_words:"true"`
	RunMode          RunMode `yaml:"runMode"          split_words:"true"`
}

var globalConfig = &Config{
	ApiListenAddress: "0.0.0.0:8090",
	BindAddr:         "0.0.0.0",
	BootstrapAdmin:   "",
	MetricsPort:      8091,
	Tracing:          false,
	TracingStdout:    false,
	RunMode:          RunModeProd,
	ShutdownTimeout:  DefaultShutdownTimeout,
}

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.freehold/freehold.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".freehold", "freehold.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/freehold/freehold.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/freehold/freehold.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	err := envconfig.Process("freehold", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}

	// Validate and default RunMode
	if !globalConfig.RunMode.Valid() {
		return nil, fmt.Errorf(
			"invalid runMode: %q (must be 'prod', 'dev', or 'test')",
			globalConfig.RunMode,
		)
	}
	if globalConfig.RunMode == "" {
		globalConfig.RunMode = RunModeProd
	}

	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}
