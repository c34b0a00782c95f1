package dto

// ProgressResponse reports the recomputed completion of one work order.
type ProgressResponse struct {
	WorkOrderID string  `json:"workOrderID"`
	Percentage  float64 `json:"percentage"`
}

// RecomputeAllResponse reports a full progress sweep.
type RecomputeAllResponse struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// SynchronizeResponse reports a reconciliation run.
type SynchronizeResponse struct {
	RepairedEntries  int `json:"repairedEntries"`
	AdvancedOrders   int `json:"advancedOrders"`
	ProgressUpdates  int `json:"progressUpdates"`
	ProgressFailures int `json:"progressFailures"`
}

// PurgeRequest optionally overrides the maximum age of open entries.
type PurgeRequest struct {
	MaxOpenAgeHours *int `json:"maxOpenAgeHours,omitempty" binding:"omitempty,min=1"`
}

// PurgeResponse reports how many entries each purge category removed.
type PurgeResponse struct {
	StaleOpen        int `json:"staleOpen"`
	ZeroHours        int `json:"zeroHours"`
	DanglingRef      int `json:"danglingRef"`
	SkippedOnFailure int `json:"skippedOnFailure"`
}

// MarkDoneRequest carries the optional comment recorded on completion.
type MarkDoneRequest struct {
	Comment string `json:"comment,omitempty"`
}
