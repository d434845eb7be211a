package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"random-coffee/internal/database"
	"random-coffee/internal/notification"
)

type EmailTemplate struct {
	ID          int64
	Name        string
	Subject     string
	HTMLBody    string
	TextBody    string
	Description string
	Variables   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EmailTemplatePatch holds the fields to change; nil fields keep their value.
type EmailTemplatePatch struct {
	Subject     *string
	HTMLBody    *string
	TextBody    *string
	Description *string
}

type EmailTemplateRepository interface {
	List(ctx context.Context) ([]EmailTemplate, error)
	GetByID(ctx context.Context, id int64) (EmailTemplate, error)
	GetByName(ctx context.Context, name string) (EmailTemplate, error)
	Update(ctx context.Context, id int64, patch EmailTemplatePatch) (EmailTemplate, error)
	FindTemplate(ctx context.Context, name string) (notification.Template, error)
}

type SQLEmailTemplateRepository struct {
	db  database.DB
	now func() time.Time
}

func NewSQLEmailTemplateRepository(db database.DB) *SQLEmailTemplateRepository {
	return &SQLEmailTemplateRepository{db: db, now: time.Now}
}

const emailTemplateColumns = `id, name, subject, html_body, COALESCE(text_body, ''), COALESCE(description, ''), variables, created_at, updated_at`

func (r *SQLEmailTemplateRepository) List(ctx context.Context) ([]EmailTemplate, error) {
	rows, err := r.db.Query(ctx, `SELECT `+emailTemplateColumns+` FROM email_templates ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]EmailTemplate, 0)
	for rows.Next() {
		t, err := scanEmailTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLEmailTemplateRepository) GetByID(ctx context.Context, id int64) (EmailTemplate, error) {
	row := r.db.QueryRow(ctx, `SELECT `+emailTemplateColumns+` FROM email_templates WHERE id = $1`, id)
	return scanEmailTemplate(row)
}

func (r *SQLEmailTemplateRepository) GetByName(ctx context.Context, name string) (EmailTemplate, error) {
	row := r.db.QueryRow(ctx, `SELECT `+emailTemplateColumns+` FROM email_templates WHERE name = $1`, name)
	return scanEmailTemplate(row)
}

func (r *SQLEmailTemplateRepository) Update(ctx context.Context, id int64, patch EmailTemplatePatch) (EmailTemplate, error) {
	affected, err := r.db.Exec(
		ctx,
		`UPDATE email_templates SET
			subject = COALESCE($1, subject),
			html_body = COALESCE($2, html_body),
			text_body = COALESCE($3, text_body),
			description = COALESCE($4, description),
			updated_at = $5
		 WHERE id = $6`,
		patch.Subject,
		patch.HTMLBody,
		patch.TextBody,
		patch.Description,
		r.now().UTC(),
		id,
	)
	if err != nil {
		return EmailTemplate{}, err
	}
	if affected == 0 {
		return EmailTemplate{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// FindTemplate adapts the store to notification.TemplateSource.
func (r *SQLEmailTemplateRepository) FindTemplate(ctx context.Context, name string) (notification.Template, error) {
	t, err := r.GetByName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return notification.Template{}, notification.ErrTemplateNotFound
	}
	if err != nil {
		return notification.Template{}, err
	}
	return notification.Template{
		Name:     t.Name,
		Subject:  t.Subject,
		HTMLBody: t.HTMLBody,
		TextBody: t.TextBody,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmailTemplate(row rowScanner) (EmailTemplate, error) {
	var t EmailTemplate
	var vars string
	err := row.Scan(&t.ID, &t.Name, &t.Subject, &t.HTMLBody, &t.TextBody, &t.Description, &vars, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, database.ErrNoRows) {
		return EmailTemplate{}, ErrNotFound
	}
	if err != nil {
		return EmailTemplate{}, err
	}
	t.Variables = splitList(vars)
	return t, nil
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
