package timeline

// Record is the stable serializable form of a checkpoint exposed to the
// report layer.
type Record struct {
	ID                string  `json:"id"`
	Timestamp         string  `json:"timestamp"`
	Category          string  `json:"category"`
	TimeOffsetSeconds float64 `json:"timeOffsetSeconds"`
	TriggerFired      bool    `json:"triggerFired"`
	Context           string  `json:"context,omitempty"`
}

// Export returns the stored checkpoints in serializable form, plus the
// number of checkpoints dropped to the capacity bound.
type Export struct {
	Checkpoints []Record `json:"checkpoints"`
	Dropped     int      `json:"dropped,omitempty"`
}

// Export renders the timeline's stable per-checkpoint field set.
func (t *Timeline) Export() Export {
	records := make([]Record, 0, len(t.entries))
	for _, cp := range t.entries {
		records = append(records, Record{
			ID:                cp.ID,
			Timestamp:         cp.Timestamp.Format("15:04:05.000"),
			Category:          string(cp.Category),
			TimeOffsetSeconds: cp.Offset.Seconds(),
			TriggerFired:      cp.TriggerFired,
			Context:           cp.Context,
		})
	}
	return Export{Checkpoints: records, Dropped: t.dropped}
}
