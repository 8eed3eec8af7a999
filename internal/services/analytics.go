package services

import (
	"context"
	"fmt"
	"time"

	"eventplanner/internal/domain"
)

type analyticsService struct {
	repo           domain.AnalyticsRepository
	contextTimeout time.Duration
}

func NewAnalyticsService(repo domain.AnalyticsRepository, timeout time.Duration) domain.AnalyticsService {
	return &analyticsService{repo: repo, contextTimeout: timeout}
}

// GetEventAnalytics returns the summary view row and the totals with projected profit.
func (s *analyticsService) GetEventAnalytics(ctx context.Context, eventID int64) (*domain.EventSummary, *domain.EventAnalytics, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	summary, err := s.repo.GetSummary(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("get summary: %w", err)
	}
	totals, err := s.repo.GetTotals(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("get totals: %w", err)
	}
	return summary, &domain.EventAnalytics{
		EventTotals:     *totals,
		ProjectedProfit: domain.Profitability(*totals),
	}, nil
}

func (s *analyticsService) ListPopularEvents(ctx context.Context) ([]*domain.PopularEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.repo.ListPopular(ctx, domain.PopularEventsLimit)
	if err != nil {
		return nil, fmt.Errorf("list popular events: %w", err)
	}
	return events, nil
}
