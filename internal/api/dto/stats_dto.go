package dto

// StatsResponse holds global per-status counts.
type StatsResponse struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// EmployeeHistoryResponse combines workload counters with recent events.
type EmployeeHistoryResponse struct {
	EmployeeID      string          `json:"employee_id"`
	FullName        string          `json:"full_name"`
	Role            string          `json:"role"`
	TotalAssigned   int64           `json:"total_assigned"`
	Completed       int64           `json:"completed"`
	InProgress      int64           `json:"in_progress"`
	CriticalPending int64           `json:"critical_pending"`
	RecentEvents    []EventResponse `json:"recent_events"`
}
