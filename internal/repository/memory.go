package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/issue-reporting-service/internal/domain"
)

// MemoryStore holds every collection behind the repository interfaces in
// process memory. It is constructed once per application or test run and
// owns its collections explicitly; there is no package-level state. The
// implementations share pgx.ErrNoRows as the not-found sentinel with the
// Postgres ones so callers map errors the same way against either backend.
type MemoryStore struct {
	mu            sync.RWMutex
	users         []domain.User
	issues        []domain.Issue
	comments      []domain.Comment
	notifications []domain.Notification
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Users returns the user repository view of the store.
func (s *MemoryStore) Users() UserRepository { return &memoryUserRepository{store: s} }

// Issues returns the issue repository view of the store.
func (s *MemoryStore) Issues() IssueRepository { return &memoryIssueRepository{store: s} }

// Comments returns the comment repository view of the store.
func (s *MemoryStore) Comments() CommentRepository { return &memoryCommentRepository{store: s} }

// Notifications returns the notification repository view of the store.
func (s *MemoryStore) Notifications() NotificationRepository {
	return &memoryNotificationRepository{store: s}
}

type memoryUserRepository struct {
	store *MemoryStore
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.store.users = append(r.store.users, *user)
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.users {
		if r.store.users[i].ID == id {
			user := r.store.users[i]
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.users {
		if r.store.users[i].Email == email {
			user := r.store.users[i]
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memoryIssueRepository struct {
	store *MemoryStore
}

func (r *memoryIssueRepository) Create(_ context.Context, issue *domain.Issue) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	now := time.Now()
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = now
	}
	if issue.UpdatedAt.IsZero() {
		issue.UpdatedAt = issue.CreatedAt
	}
	r.store.issues = append(r.store.issues, *issue)
	return nil
}

func (r *memoryIssueRepository) Update(_ context.Context, issue *domain.Issue) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.issues {
		if r.store.issues[i].ID == issue.ID {
			r.store.issues[i] = *issue
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memoryIssueRepository) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.issues {
		if r.store.issues[i].ID == id {
			issue := r.store.issues[i]
			return &issue, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// List filters the collection as a conjunction and preserves insertion
// order, matching the Postgres implementation's created_at ordering.
func (r *memoryIssueRepository) List(_ context.Context, filter IssueFilter) ([]domain.Issue, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make([]domain.Issue, 0, len(r.store.issues))
	for i := range r.store.issues {
		issue := r.store.issues[i]
		if filter.StudentID != nil && issue.StudentID != *filter.StudentID {
			continue
		}
		if filter.Department != nil && issue.Department != *filter.Department {
			continue
		}
		if filter.Status != nil && issue.Status != *filter.Status {
			continue
		}
		if filter.AssignedTo != nil {
			if issue.AssignedTo == nil || *issue.AssignedTo != *filter.AssignedTo {
				continue
			}
		}
		result = append(result, issue)
	}
	return result, nil
}

type memoryCommentRepository struct {
	store *MemoryStore
}

func (r *memoryCommentRepository) Create(_ context.Context, comment *domain.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.store.comments = append(r.store.comments, *comment)
	return nil
}

func (r *memoryCommentRepository) ListByIssue(_ context.Context, issueID string) ([]domain.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make([]domain.Comment, 0)
	for i := range r.store.comments {
		if r.store.comments[i].IssueID == issueID {
			result = append(result, r.store.comments[i])
		}
	}
	return result, nil
}

type memoryNotificationRepository struct {
	store *MemoryStore
}

func (r *memoryNotificationRepository) Create(_ context.Context, notification *domain.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	r.store.notifications = append(r.store.notifications, *notification)
	return nil
}

func (r *memoryNotificationRepository) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make([]domain.Notification, 0)
	for i := range r.store.notifications {
		if r.store.notifications[i].UserID == userID {
			result = append(result, r.store.notifications[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryNotificationRepository) MarkRead(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.notifications {
		if r.store.notifications[i].ID == id {
			r.store.notifications[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memoryNotificationRepository) MarkAllRead(_ context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.notifications {
		if r.store.notifications[i].UserID == userID {
			r.store.notifications[i].Read = true
		}
	}
	return nil
}
