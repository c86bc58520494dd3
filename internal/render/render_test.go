package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"netmend/internal/domain"
)

// TestEvent_SeverityPrefixes verifies stable prefixes with color disabled
func TestEvent_SeverityPrefixes(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, true)

	r.Events([]domain.LogEvent{
		domain.Info("probing"),
		domain.Warning("no internet connection"),
		domain.Error("step failed"),
		domain.Success("no issues detected"),
	})

	out := buf.String()
	assert.Contains(t, out, "  probing\n")
	assert.Contains(t, out, "! no internet connection\n")
	assert.Contains(t, out, "x step failed\n")
	assert.Contains(t, out, "+ no issues detected\n")
}

// TestEvent_ManualResetHintTriggersGuidance verifies the plain string
// contract: the hint phrase in a log line produces the settings guidance
func TestEvent_ManualResetHintTriggersGuidance(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, true)

	r.Event(domain.Error("could not fix - " + domain.ManualResetHint + ": restart the device"))

	assert.Contains(t, buf.String(), "system network settings")
}

// TestEvent_NoGuidanceWithoutHint verifies ordinary errors render plainly
func TestEvent_NoGuidanceWithoutHint(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, true)

	r.Event(domain.Error("step failed"))

	assert.NotContains(t, buf.String(), "settings")
}
