package events

// EventData is the interface that all event data types must implement
// This allows for type-safe event data while maintaining flexibility
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// RunCreatedData contains data for RunCreated events
type RunCreatedData struct {
	RunID     string `json:"run_id"`
	Label     string `json:"label,omitempty"`
	NumQubits int    `json:"num_qubits"`
	NumChunks int    `json:"num_chunks"`
}

// EventType returns the event type for RunCreatedData
func (d *RunCreatedData) EventType() EventType {
	return RunCreated
}

// RunFinishedData contains data for RunFinished events
type RunFinishedData struct {
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	FaultCode int    `json:"fault_code,omitempty"`
}

// EventType returns the event type for RunFinishedData
func (d *RunFinishedData) EventType() EventType {
	return RunFinished
}

// SeedAppliedData contains data for SeedApplied events
type SeedAppliedData struct {
	NumKeys  int  `json:"num_keys"`
	Explicit bool `json:"explicit"`
}

// EventType returns the event type for SeedAppliedData
func (d *SeedAppliedData) EventType() EventType {
	return SeedApplied
}

// SnapshotWrittenData contains data for SnapshotWritten events
type SnapshotWrittenData struct {
	SnapshotID string `json:"snapshot_id"`
	RunID      string `json:"run_id,omitempty"`
	ChunkID    int    `json:"chunk_id"`
	Format     string `json:"format"`
	Path       string `json:"path"`
	Uploaded   bool   `json:"uploaded"`
}

// EventType returns the event type for SnapshotWrittenData
func (d *SnapshotWrittenData) EventType() EventType {
	return SnapshotWritten
}

// StateReportedData contains data for StateReported events
type StateReportedData struct {
	ChunkID int    `json:"chunk_id"`
	Path    string `json:"path"`
}

// EventType returns the event type for StateReportedData
func (d *StateReportedData) EventType() EventType {
	return StateReported
}
