package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestPrettyWithoutColor(t *testing.T) {
	saved, savedNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = saved, savedNoColor }()
	color.NoColor = true

	Version = "1.2.3-rc.1"
	if got := Pretty(); got != "1.2.3-rc.1" {
		t.Fatalf("Pretty() = %q", got)
	}
	Version = "nightly"
	if got := Pretty(); got != "nightly" {
		t.Fatalf("non-semver version must pass through, got %q", got)
	}
}

func TestPrettyColorsComponents(t *testing.T) {
	saved, savedNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = saved, savedNoColor }()
	color.NoColor = false

	Version = "0.1.0"
	if got := Pretty(); got == Version {
		t.Fatalf("expected escape sequences in %q", got)
	}
}
