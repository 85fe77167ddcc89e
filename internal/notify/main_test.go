package notify

import (
	"testing"

	"go.uber.org/goleak"
)

// Banner timers run their callbacks on short-lived goroutines; none may
// outlive the tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
