package tuitest

import (
	"testing"

	"github.com/charmbracelet/x/exp/golden"
)

// RequireGolden compares the ANSI-stripped output with
// testdata/<TestName>.golden. Run the tests with -update to rewrite it.
func RequireGolden(t *testing.T, output string) {
	t.Helper()
	golden.RequireEqual(t, []byte(StripANSI(output)))
}
