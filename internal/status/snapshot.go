// internal/status/snapshot.go
package status

// Snapshot represents exactly what the writer is allowed to deliver for one group.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health            uint16
	LastFaultCode     uint16
	ConsecutiveFaults uint16
	Rewrites          uint16
	ValueLow          uint16
	ValueHigh         uint16
	Valid             uint16
}
