package sentrysdk

import "testing"

func TestInitializeDisabledWithoutDSN(t *testing.T) {
	if err := Initialize(Config{}); err != nil {
		t.Fatalf("Initialize with empty DSN should be a no-op, got %v", err)
	}
	if IsEnabled() {
		t.Error("Sentry should be disabled without a DSN")
	}
}
