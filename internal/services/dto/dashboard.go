package dto

// DashboardStatsResponse summarizes one user's footprint
type DashboardStatsResponse struct {
	BusinessCount   int64 `json:"business_count"`
	MarketCount     int64 `json:"market_count"`
	AttendanceCount int64 `json:"attendance_count"`
	ReviewCount     int64 `json:"review_count"`

	ApplicationTotal    int64            `json:"application_total"`
	ApplicationsByState map[string]int64 `json:"applications_by_status"`
}
