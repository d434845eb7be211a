package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"random-coffee/internal/repository"
)

const (
	StatsCacheKey = "admin:stats"

	statsCacheTTL = time.Minute
	recentWindow  = 7 * 24 * time.Hour

	maxSubjectLen = 255
)

// Cache is the JSON cache the admin views read through. Misses and cache
// errors fall back to the database.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type AdminUsecase interface {
	Stats(ctx context.Context) (repository.Stats, error)
	InvalidateStats(ctx context.Context)
	ListTemplates(ctx context.Context) ([]repository.EmailTemplate, error)
	GetTemplate(ctx context.Context, id int64) (repository.EmailTemplate, error)
	UpdateTemplate(ctx context.Context, id int64, patch repository.EmailTemplatePatch) (repository.EmailTemplate, error)
}

type Admin struct {
	stats     repository.StatsRepository
	templates repository.EmailTemplateRepository
	cache     Cache

	now    func() time.Time
	logger *log.Logger
}

func NewAdminUsecase(stats repository.StatsRepository, templates repository.EmailTemplateRepository, cache Cache, logger *log.Logger) *Admin {
	if logger == nil {
		logger = log.Default()
	}
	return &Admin{stats: stats, templates: templates, cache: cache, now: time.Now, logger: logger}
}

func (u *Admin) Stats(ctx context.Context) (repository.Stats, error) {
	if u.cache != nil {
		var cached repository.Stats
		hit, err := u.cache.GetJSON(ctx, StatsCacheKey, &cached)
		if err != nil {
			u.logger.Printf("admin_stats step=cache_get status=bypass err=%v", err)
		} else if hit {
			return cached, nil
		}
	}

	s, err := u.stats.Get(ctx, u.now().Add(-recentWindow))
	if err != nil {
		u.logger.Printf("admin_stats status=error err=%v", err)
		return repository.Stats{}, ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, StatsCacheKey, s, statsCacheTTL); err != nil {
			u.logger.Printf("admin_stats step=cache_set status=error err=%v", err)
		}
	}
	return s, nil
}

func (u *Admin) InvalidateStats(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, StatsCacheKey); err != nil {
		u.logger.Printf("admin_stats step=invalidate status=error err=%v", err)
	}
}

func (u *Admin) ListTemplates(ctx context.Context) ([]repository.EmailTemplate, error) {
	out, err := u.templates.List(ctx)
	if err != nil {
		u.logger.Printf("email_templates step=list status=error err=%v", err)
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Admin) GetTemplate(ctx context.Context, id int64) (repository.EmailTemplate, error) {
	if id <= 0 {
		return repository.EmailTemplate{}, ErrInvalidInput
	}
	t, err := u.templates.GetByID(ctx, id)
	if err != nil {
		return repository.EmailTemplate{}, u.mapTemplateErr("get", id, err)
	}
	return t, nil
}

func (u *Admin) UpdateTemplate(ctx context.Context, id int64, patch repository.EmailTemplatePatch) (repository.EmailTemplate, error) {
	if id <= 0 {
		return repository.EmailTemplate{}, ErrInvalidInput
	}
	if patch.Subject == nil && patch.HTMLBody == nil && patch.TextBody == nil && patch.Description == nil {
		return repository.EmailTemplate{}, ErrInvalidInput
	}
	if patch.Subject != nil {
		subj := strings.TrimSpace(*patch.Subject)
		if subj == "" || len(subj) > maxSubjectLen {
			return repository.EmailTemplate{}, fmt.Errorf("%w: subject must be 1..%d characters", ErrInvalidInput, maxSubjectLen)
		}
		patch.Subject = &subj
	}
	if patch.HTMLBody != nil && strings.TrimSpace(*patch.HTMLBody) == "" {
		return repository.EmailTemplate{}, fmt.Errorf("%w: html_body must not be empty", ErrInvalidInput)
	}

	t, err := u.templates.Update(ctx, id, patch)
	if err != nil {
		return repository.EmailTemplate{}, u.mapTemplateErr("update", id, err)
	}
	u.logger.Printf("email_templates step=update id=%d name=%s status=ok", id, t.Name)
	return t, nil
}

func (u *Admin) mapTemplateErr(step string, id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	u.logger.Printf("email_templates step=%s id=%d status=error err=%v", step, id, err)
	return ErrInternal
}
