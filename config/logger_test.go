package config

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"
)

func TestLoggingConfig_Prepare(t *testing.T) {
	t.Cleanup(func() { debug.SetCrashOutput(nil, debug.CrashOptions{}) })

	dir := t.TempDir()
	dest := filepath.Join(dir, "pxtovw.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "normal", Destination: dest, Mode: "overwrite"},
	}

	log, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hidden message")
	log.Info("visible message")
	_ = log.Sync()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "visible message") {
		t.Errorf("log does not contain info message:\n%s", data)
	}
	if strings.Contains(string(data), "hidden message") {
		t.Errorf("log contains debug message at normal level:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "pxtovw-panic.log")); err != nil {
		t.Errorf("panic log was not created: %v", err)
	}
}

func TestLoggingConfig_PrepareNone(t *testing.T) {
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "none"},
	}
	log, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Error("debug level enabled with all loggers off")
	}
}

func TestOpenLog_Modes(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "test.log")
	write := func(mode, text string) {
		f, err := openLog(fname, mode)
		if err != nil {
			t.Fatalf("openLog(%s) error = %v", mode, err)
		}
		if _, err := f.WriteString(text); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}

	write("overwrite", "one")
	write("append", "two")
	if data, _ := os.ReadFile(fname); string(data) != "onetwo" {
		t.Errorf("after append got %q", data)
	}
	write("overwrite", "three")
	if data, _ := os.ReadFile(fname); string(data) != "three" {
		t.Errorf("after overwrite got %q", data)
	}
}
