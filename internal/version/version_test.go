package version

import "testing"

func TestString(t *testing.T) {
	if got := String(); got != "normalizeurl "+Value {
		t.Fatalf("unexpected version string: %s", got)
	}
}
