//go:build !opengl43

package compute

import (
	"errors"
	"testing"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

func TestGLNotRegisteredWithoutTag(t *testing.T) {
	if _, err := New("gl", 0); !errors.Is(err, dynamo.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend without the opengl43 tag, got %v", err)
	}
	for _, name := range Names() {
		if name == "gl" {
			t.Error("gl listed without the opengl43 tag")
		}
	}
}
