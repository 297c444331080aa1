package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/issue-reporting-service/internal/domain"
)

// IssueFilter is a conjunction over the four filterable fields; nil
// fields match everything.
type IssueFilter struct {
	StudentID  *string
	Department *string
	Status     *domain.IssueStatus
	AssignedTo *string
}

// IssueRepository encapsulates issue persistence. List returns issues in
// insertion order.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	Update(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository returns a Postgres-backed implementation.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (title, description, category, department, priority, status, student_id, assigned_to, attachments)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.Department,
		issue.Priority,
		issue.Status,
		issue.StudentID,
		issue.AssignedTo,
		issue.Attachments,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
}

func (r *issueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	const query = `
        UPDATE issues SET priority=$1, status=$2, assigned_to=$3, updated_at=$4, resolved_at=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		issue.Priority,
		issue.Status,
		issue.AssignedTo,
		issue.UpdatedAt,
		issue.ResolvedAt,
		issue.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	const query = `
        SELECT id, title, description, category, department, priority, status,
               student_id, assigned_to, attachments, created_at, updated_at, resolved_at
        FROM issues WHERE id=$1`
	var issue domain.Issue
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.Department,
		&issue.Priority,
		&issue.Status,
		&issue.StudentID,
		&issue.AssignedTo,
		&issue.Attachments,
		&issue.CreatedAt,
		&issue.UpdatedAt,
		&issue.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	base := `SELECT id, title, description, category, department, priority, status,
                    student_id, assigned_to, attachments, created_at, updated_at, resolved_at
             FROM issues`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		clauses = append(clauses, fmt.Sprintf("student_id=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at ASC, id ASC`,
		base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		if err := rows.Scan(
			&issue.ID,
			&issue.Title,
			&issue.Description,
			&issue.Category,
			&issue.Department,
			&issue.Priority,
			&issue.Status,
			&issue.StudentID,
			&issue.AssignedTo,
			&issue.Attachments,
			&issue.CreatedAt,
			&issue.UpdatedAt,
			&issue.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}
