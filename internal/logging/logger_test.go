package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/uk-tax-calculator/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		config    config.LoggingConfig
		override  string
		wantError bool
		wantLevel zapcore.Level
	}{
		{"Defaults", config.LoggingConfig{}, "", false, zapcore.InfoLevel},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false, zapcore.DebugLevel},
		{"Override wins", config.LoggingConfig{Level: "debug"}, "error", false, zapcore.ErrorLevel},
		{"Warning alias", config.LoggingConfig{Level: "warning"}, "", false, zapcore.WarnLevel},
		{"Invalid level", config.LoggingConfig{Level: "loud"}, "", true, zapcore.InfoLevel},
		{"Invalid format", config.LoggingConfig{Format: "xml"}, "", true, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config, tt.override)
			if tt.wantError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !logger.Core().Enabled(tt.wantLevel) {
				t.Errorf("expected level %s enabled", tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && logger.Core().Enabled(tt.wantLevel-1) {
				t.Errorf("expected level below %s disabled", tt.wantLevel)
			}
		})
	}
}

func TestNewWithOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := New(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log output in file")
	}
}
