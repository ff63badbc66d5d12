// Package config provides configuration management for the Splitsight service.
package config

import (
	"os"
	"strings"
	"testing"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
	expectedNoErrorMsg    = "expected no error, got %v"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	os.Setenv("SPLITSIGHT_DB_PASSWORD", "sekrit")
	defer os.Unsetenv("SPLITSIGHT_DB_PASSWORD")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.App.Name != "splitsight" {
		t.Errorf("expected app name 'splitsight', got '%s'", cfg.App.Name)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("expected database port 5432, got %d", cfg.Database.Port)
	}

	if cfg.Database.Password != "sekrit" {
		t.Errorf("expected password expanded from environment, got '%s'", cfg.Database.Password)
	}

	if cfg.Chart.DefaultType != "splits-graph" {
		t.Errorf("expected default chart type 'splits-graph', got '%s'", cfg.Chart.DefaultType)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadWithDefaults tests defaults applied when no file exists
func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("expected default environment 'development', got '%s'", cfg.App.Environment)
	}

	if cfg.Chart.FastestTimePercentage != 5 {
		t.Errorf("expected default fastest-time percentage 5, got %v", cfg.Chart.FastestTimePercentage)
	}
}

// TestValidateRejectsBadEnvironment tests the custom environment rule
func TestValidateRejectsBadEnvironment(t *testing.T) {
	os.Setenv("SPLITSIGHT_DB_PASSWORD", "sekrit")
	defer os.Unsetenv("SPLITSIGHT_DB_PASSWORD")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config to validate, got %v", err)
	}

	cfg.App.Environment = "invalid"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for bad environment")
	}
	if !strings.Contains(err.Error(), "environment") {
		t.Errorf("expected error to mention environment, got %v", err)
	}
}

// TestValidateRejectsBadChartType tests the custom chart type rule
func TestValidateRejectsBadChartType(t *testing.T) {
	os.Setenv("SPLITSIGHT_DB_PASSWORD", "sekrit")
	defer os.Unsetenv("SPLITSIGHT_DB_PASSWORD")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg.Chart.DefaultType = "pie"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for bad chart type")
	}
}

// TestGetDatabaseDSN tests DSN formatting
func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "localhost", Port: 5432, Name: "splitsight",
		User: "u", Password: "p", SSLMode: "disable",
	}}

	dsn := cfg.GetDatabaseDSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("expected postgres:// DSN, got %s", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("expected sslmode in DSN, got %s", dsn)
	}
}
