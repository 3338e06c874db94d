package misc

import "testing"

func TestIdentification(t *testing.T) {
	if got := GetAppName(); got != "pxtovw" {
		t.Errorf("GetAppName() = %q", got)
	}
	if GetVersion() == "" {
		t.Error("GetVersion() returned empty string")
	}
	if GetGitHash() == "" {
		t.Error("GetGitHash() returned empty string")
	}
}
