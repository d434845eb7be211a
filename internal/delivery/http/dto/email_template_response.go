package dto

import "time"

type EmailTemplateSummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Variables   []string  `json:"variables"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type EmailTemplateResponse struct {
	EmailTemplateSummary
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

type UpdateEmailTemplateRequest struct {
	Subject     *string `json:"subject"`
	HTMLBody    *string `json:"html_body"`
	TextBody    *string `json:"text_body"`
	Description *string `json:"description"`
}
