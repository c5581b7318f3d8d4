package parser

import (
	"strings"
	"testing"
)

func TestNormalizeSource(t *testing.T) {
	t.Run("no virtual class", func(t *testing.T) {
		data := []byte("class A { virtual void f(); };")
		src, virtualAt := normalizeSource(data)
		if string(src) != string(data) {
			t.Errorf("source changed: %q", src)
		}
		if virtualAt != nil {
			t.Errorf("virtualAt = %v, want nil", virtualAt)
		}
	})

	t.Run("virtual class", func(t *testing.T) {
		data := []byte("namespace a {\nvirtual  class B {};\n}")
		src, virtualAt := normalizeSource(data)

		if len(src) != len(data) {
			t.Fatalf("length changed from %d to %d", len(data), len(src))
		}
		if strings.Contains(string(src), "virtual") {
			t.Errorf("virtual not removed: %q", src)
		}
		if !strings.Contains(string(data), "virtual") {
			t.Error("input slice should not be modified in place")
		}

		classAt := strings.Index(string(data), "class")
		if !virtualAt[uint32(classAt)] {
			t.Errorf("virtualAt = %v, want offset %d", virtualAt, classAt)
		}
	})
}
