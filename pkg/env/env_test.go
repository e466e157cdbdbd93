package env

import "testing"

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("RESTO_LOG_FORMAT", "console")
	t.Setenv("LOG_FORMAT", "json")

	if got := First("text", "RESTO_LOG_FORMAT", "LOG_FORMAT"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("RESTO_BLANK", "   ")

	if got := Get("RESTO_BLANK", "json"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
