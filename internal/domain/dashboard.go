package domain

import "time"

// NameCount is one aggregation bucket (subscriber or product).
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DateCount is one day's bucket in a trend series.
type DateCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// DashboardData is the analytics payload served to the dashboard UI.
type DashboardData struct {
	TotalSubscribers    int         `json:"total_subscribers"`
	TotalUsageEntries   int         `json:"total_usage_entries"`
	TopSubscriber       string      `json:"top_subscriber"`
	TopSubscribers      []NameCount `json:"top_subscribers"`
	TopProducts         []NameCount `json:"top_products"`
	UsageTrends         []DateCount `json:"usage_trends"`
	NewSubscribers      []DateCount `json:"new_subscribers"`
	RetentionRate       float64     `json:"retention_rate"`
}
