package metrics

import (
	"testing"
)

// Accessors must be safe to call before SetGlobal wires real collectors.
func TestAccessorsWithoutGlobal(t *testing.T) {
	SetGlobal(nil)

	Connects().Inc()
	ConnectErrors("dial").Inc()
	ConnectSeconds().Observe(0.1)
	Transports().Inc()
	Transports().Dec()
	Streams().Add(2)
	InputBytes("fwd-0").Add(16)
	OutputBytes("fwd-0").Add(16)
}
