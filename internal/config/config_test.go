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
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		ApiListenAddress: "0.0.0.0:8090",
		BindAddr:         "0.0.0.0",
		BootstrapAdmin:   "",
		MetricsPort:      8091,
		Tracing:          false,
		TracingStdout:    false,
		RunMode:          RunModeProd,
		ShutdownTimeout:  DefaultShutdownTimeout,
	}
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
apiListenAddress: "127.0.0.1:9000"
bindAddr: "127.0.0.1"
bootstrapAdmin: "ops@example.com"
metricsPort: 9001
tracing: true
tracingStdout: true
runMode: "dev"
shutdownTimeout: "10s"
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-freehold.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	expected := &Config{
		ApiListenAddress: "127.0.0.1:9000",
		BindAddr:         "127.0.0.1",
		BootstrapAdmin:   "ops@example.com",
		MetricsPort:      9001,
		Tracing:          true,
		TracingStdout:    true,
		RunMode:          RunModeDev,
		ShutdownTimeout:  "10s",
	}

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
}

func TestLoad_WithoutConfigFile_UsesDefaults(t *testing.T) {
	resetGlobalConfig()

	// Without Config file
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Expected is the original default values from globalConfig
	expected := &Config{
		ApiListenAddress: "0.0.0.0:8090",
		BindAddr:         "0.0.0.0",
		BootstrapAdmin:   "",
		MetricsPort:      8091,
		Tracing:          false,
		TracingStdout:    false,
		RunMode:          RunModeProd,
		ShutdownTimeout:  DefaultShutdownTimeout,
	}

	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf(
			"config mismatch without file:\nExpected: %+v\nGot:      %+v",
			expected,
			cfg,
		)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	resetGlobalConfig()

	yamlContent := `
apiListenAddress: "127.0.0.1:9000"
bootstrapAdmin: "file@example.com"
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-env-override.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("FREEHOLD_BOOTSTRAP_ADMIN", "env@example.com")
	t.Setenv("FREEHOLD_METRICS_PORT", "9999")

	cfg, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.ApiListenAddress != "127.0.0.1:9000" {
		t.Errorf(
			"expected ApiListenAddress from file, got: %s",
			cfg.ApiListenAddress,
		)
	}
	if cfg.BootstrapAdmin != "env@example.com" {
		t.Errorf(
			"expected BootstrapAdmin from environment, got: %s",
			cfg.BootstrapAdmin,
		)
	}
	if cfg.MetricsPort != 9999 {
		t.Errorf("expected MetricsPort from environment, got: %d", cfg.MetricsPort)
	}
}

func TestLoad_InvalidRunMode(t *testing.T) {
	resetGlobalConfig()

	yamlContent := `
runMode: "bogus"
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-invalid-run-mode.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadConfig(tmpFile); err == nil {
		t.Error("expected error for invalid run mode, got nil")
	}
}

func TestRunModeValid(t *testing.T) {
	tests := []struct {
		mode  RunMode
		valid bool
	}{
		{RunModeProd, true},
		{RunModeDev, true},
		{RunModeTest, true},
		{"", true},
		{"bogus", false},
	}
	for _, tt := range tests {
		if got := tt.mode.Valid(); got != tt.valid {
			t.Errorf("RunMode(%q).Valid() = %v, want %v", tt.mode, got, tt.valid)
		}
	}
}

func TestRunModeIsDevMode(t *testing.T) {
	if !RunModeDev.IsDevMode() {
		t.Error("expected dev mode to report IsDevMode")
	}
	if RunModeProd.IsDevMode() || RunModeTest.IsDevMode() {
		t.Error("expected non-dev modes to not report IsDevMode")
	}
}

func TestContextRoundTrip(t *testing.T) {
	cfg := &Config{ApiListenAddress: ":0"}
	ctx := WithContext(context.Background(), cfg)
	if got := FromContext(ctx); got != cfg {
		t.Errorf("FromContext returned %+v, want %+v", got, cfg)
	}
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext on empty context returned %+v, want nil", got)
	}
}
