package seeder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"random-coffee/internal/database"
	"random-coffee/internal/notification"
)

type EmailTemplateSeeder struct{}

func (EmailTemplateSeeder) Name() string { return "email_templates" }

func (EmailTemplateSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "email_templates",
		"id",
		"name",
		"subject",
		"html_body",
		"text_body",
		"description",
		"variables",
		"created_at",
		"updated_at",
	); err != nil {
		return err
	}

	tpl := notification.DefaultTemplate
	now := time.Now().UTC()

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO email_templates (name, subject, html_body, text_body, description, variables, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			 ON CONFLICT (name) DO NOTHING`,
			tpl.Name,
			tpl.Subject,
			tpl.HTMLBody,
			tpl.TextBody,
			"Weekly Random Coffee match notification",
			strings.Join(notification.TemplateVariables, ","),
			now,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", tpl.Name, err)
		}
		return nil
	})
}
