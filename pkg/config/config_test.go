package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8089" {
		t.Errorf("Expected Port to be 8089, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Database.MaxConns != 25 {
		t.Errorf("Expected DB MaxConns to be 25, got %d", cfg.Database.MaxConns)
	}

	if cfg.Engine.PeriodsPerYear != 252 {
		t.Errorf("Expected PeriodsPerYear to be 252, got %v", cfg.Engine.PeriodsPerYear)
	}

	if cfg.Quality.MinCompleteness != 0.95 {
		t.Errorf("Expected MinCompleteness to be 0.95, got %v", cfg.Quality.MinCompleteness)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	// Set custom environment variables
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("DB_MAX_CONNS", "50")
	os.Setenv("LOG_LEVEL", "info")
	os.Setenv("ENGINE_RISK_FREE_RATE", "0.03")
	os.Setenv("ENGINE_VAR_CONFIDENCE_LEVELS", "0.90, 0.95, 0.99")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("DB_MAX_CONNS")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("ENGINE_RISK_FREE_RATE")
		os.Unsetenv("ENGINE_VAR_CONFIDENCE_LEVELS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Database.MaxConns != 50 {
		t.Errorf("Expected DB MaxConns to be 50, got %d", cfg.Database.MaxConns)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel to be info, got %s", cfg.LogLevel)
	}

	if cfg.Engine.RiskFreeRate != 0.03 {
		t.Errorf("Expected RiskFreeRate to be 0.03, got %v", cfg.Engine.RiskFreeRate)
	}

	levels := cfg.Engine.ConfidenceLevels
	if len(levels) != 3 || levels[0] != 0.90 || levels[2] != 0.99 {
		t.Errorf("Expected confidence levels [0.90 0.95 0.99], got %v", levels)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "invalid")
	defer os.Unsetenv("ENV")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateInvalidConfidenceLevel(t *testing.T) {
	os.Setenv("ENGINE_VAR_CONFIDENCE_LEVELS", "1.5")
	defer os.Unsetenv("ENGINE_VAR_CONFIDENCE_LEVELS")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when confidence level is out of (0, 1), got nil")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "2h")
	defer os.Unsetenv("TEST_DURATION")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	expected := 2 * time.Hour

	if duration != expected {
		t.Errorf("Expected duration to be %v, got %v", expected, duration)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	os.Setenv("TEST_INT", "100")
	defer os.Unsetenv("TEST_INT")

	value := getEnvAsInt("TEST_INT", 50)
	if value != 100 {
		t.Errorf("Expected value to be 100, got %d", value)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	os.Setenv("TEST_BOOL", "true")
	defer os.Unsetenv("TEST_BOOL")

	value := getEnvAsBool("TEST_BOOL", false)
	if value != true {
		t.Errorf("Expected value to be true, got %v", value)
	}
}

func TestGetEnvAsFloats(t *testing.T) {
	os.Setenv("TEST_FLOATS", "0.95,0.99")
	defer os.Unsetenv("TEST_FLOATS")

	values := getEnvAsFloats("TEST_FLOATS", []float64{0.5})
	if len(values) != 2 || values[0] != 0.95 || values[1] != 0.99 {
		t.Errorf("Expected [0.95 0.99], got %v", values)
	}
}
