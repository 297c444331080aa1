package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/issue-reporting-service/internal/domain"
	"github.com/spec-kit/issue-reporting-service/internal/events"
	"github.com/spec-kit/issue-reporting-service/internal/persistence"
	"github.com/spec-kit/issue-reporting-service/internal/repository"
	apperrors "github.com/spec-kit/issue-reporting-service/pkg/util"
)

const statsCacheKey = "stats:overview"

// DepartmentStats counts issues for one canonical department.
type DepartmentStats struct {
	Name     string `json:"name"`
	Issues   int    `json:"issues"`
	Resolved int    `json:"resolved"`
}

// Overview is the admin dashboard aggregate, computed on demand and
// never stored beyond the cache.
type Overview struct {
	TotalIssues       int                        `json:"total_issues"`
	PendingIssues     int                        `json:"pending_issues"`
	ResolvedIssues    int                        `json:"resolved_issues"`
	CountByStatus     map[domain.IssueStatus]int `json:"count_by_status"`
	Departments       []DepartmentStats          `json:"departments"`
	AvgResolutionDays int                        `json:"avg_resolution_days"`
}

// StatsService derives aggregate statistics over the issue collection,
// with a short-lived redis cache in front of the computation.
type StatsService struct {
	issues repository.IssueRepository
	cache  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsService constructs the service. The cache may be nil or
// unconfigured; the service then computes on every call.
func NewStatsService(issues repository.IssueRepository, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{issues: issues, cache: cache, ttl: ttl, logger: logger}
}

// RegisterInvalidation drops the cached overview whenever the dispatcher
// publishes an issue mutation.
func (s *StatsService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	invalidate := func(ctx context.Context, _ events.Event) error {
		s.invalidate(ctx)
		return nil
	}
	dispatcher.Subscribe(events.EventIssueCreated, invalidate)
	dispatcher.Subscribe(events.EventIssueAssigned, invalidate)
	dispatcher.Subscribe(events.EventIssueStatusChanged, invalidate)
}

// Overview returns the current aggregate, from cache when fresh.
func (s *StatsService) Overview(ctx context.Context) (*Overview, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	issues, err := s.issues.List(ctx, repository.IssueFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	overview := computeOverview(issues)
	s.store(ctx, overview)
	return overview, nil
}

func computeOverview(issues []domain.Issue) *Overview {
	overview := &Overview{
		TotalIssues:   len(issues),
		CountByStatus: map[domain.IssueStatus]int{},
	}
	for _, issue := range issues {
		overview.CountByStatus[issue.Status]++
	}
	overview.PendingIssues = overview.CountByStatus[domain.IssueStatusPending]
	overview.ResolvedIssues = overview.CountByStatus[domain.IssueStatusResolved]

	overview.Departments = make([]DepartmentStats, 0, len(domain.Departments))
	for _, name := range domain.Departments {
		stats := DepartmentStats{Name: name}
		for _, issue := range issues {
			if issue.Department != name {
				continue
			}
			stats.Issues++
			if issue.Status == domain.IssueStatusResolved {
				stats.Resolved++
			}
		}
		overview.Departments = append(overview.Departments, stats)
	}

	overview.AvgResolutionDays = avgResolutionDays(issues)
	return overview
}

// avgResolutionDays is round(mean(resolved_at - created_at) in days) over
// issues holding a resolved_at; zero when none do.
func avgResolutionDays(issues []domain.Issue) int {
	var total time.Duration
	count := 0
	for _, issue := range issues {
		if issue.ResolvedAt == nil {
			continue
		}
		total += issue.ResolvedAt.Sub(issue.CreatedAt)
		count++
	}
	if count == 0 {
		return 0
	}
	meanDays := total.Hours() / 24 / float64(count)
	return int(math.Round(meanDays))
}

func (s *StatsService) fromCache(ctx context.Context) *Overview {
	if s.cache == nil || s.cache.Client == nil || s.ttl <= 0 {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var overview Overview
	if err := json.Unmarshal(raw, &overview); err != nil {
		return nil
	}
	return &overview
}

func (s *StatsService) store(ctx context.Context, overview *Overview) {
	if s.cache == nil || s.cache.Client == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, statsCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Debug("stats cache store failed", zap.Error(err))
	}
}

func (s *StatsService) invalidate(ctx context.Context) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	if err := s.cache.Client.Del(ctx, statsCacheKey).Err(); err != nil {
		s.logger.Debug("stats cache invalidation failed", zap.Error(err))
	}
}
