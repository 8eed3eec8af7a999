package domain

import (
	"context"
	"time"
)

// EventSummary is one row of the event_summary view.
// swagger:model EventSummary
type EventSummary struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Location         string    `json:"location"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	UserID           int64     `json:"user_id"`
	AttendeeCount    int       `json:"attendee_count"`
	VendorCount      int       `json:"vendor_count"`
	SponsorCount     int       `json:"sponsor_count"`
	ItemCount        int       `json:"item_count"`
	TotalSponsorship float64   `json:"total_sponsorship"`
	TotalCosts       float64   `json:"total_costs"`
	PopularityRank   int       `json:"popularity_rank"`
}

// EventTotals holds the raw aggregates of one event.
type EventTotals struct {
	TotalAttendees   int     `json:"total_attendees"`
	TotalSponsors    int     `json:"total_sponsors"`
	TotalVendors     int     `json:"total_vendors"`
	TotalSponsorship float64 `json:"total_sponsorship"`
	TotalCosts       float64 `json:"total_costs"`
}

// EventAnalytics is EventTotals plus the derived profit figure.
// swagger:model EventAnalytics
type EventAnalytics struct {
	EventTotals
	ProjectedProfit float64 `json:"projected_profit"`
}

// Profitability is sponsorship income minus vendor costs.
func Profitability(t EventTotals) float64 {
	return t.TotalSponsorship - t.TotalCosts
}

// PopularEvent is one row of the event_popularity view.
// swagger:model PopularEvent
type PopularEvent struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Location         string    `json:"location"`
	StartTime        time.Time `json:"start_time"`
	AttendeeCount    int       `json:"attendee_count"`
	TotalSponsorship float64   `json:"total_sponsorship"`
	PopularityRank   int       `json:"popularity_rank"`
}

// PopularEventsLimit is the number of events returned by the popular events read.
const PopularEventsLimit = 10

// AnalyticsRepository reads the aggregate views.
type AnalyticsRepository interface {
	GetSummary(ctx context.Context, eventID int64) (*EventSummary, error)
	GetTotals(ctx context.Context, eventID int64) (*EventTotals, error)
	ListPopular(ctx context.Context, limit int) ([]*PopularEvent, error)
}

// AnalyticsService exposes the analytics reads.
type AnalyticsService interface {
	GetEventAnalytics(ctx context.Context, eventID int64) (*EventSummary, *EventAnalytics, error)
	ListPopularEvents(ctx context.Context) ([]*PopularEvent, error)
}
