package usecase

import (
	"context"
	"strings"

	"hirepulse/internal/domain/tags"
	"hirepulse/internal/repository"
	"hirepulse/internal/sheets"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SyncResult struct {
	Synced      int
	Updated     int
	Deactivated int
}

// Changed reports whether the sync touched anything worth an admin summary.
func (r SyncResult) Changed() bool {
	return r.Synced > 0 || r.Updated > 0 || r.Deactivated > 0
}

type VacancySyncUsecase interface {
	SyncAll(ctx context.Context) (SyncResult, error)
}

type VacancySync struct {
	source      sheets.Source
	vacancies   repository.VacancyRepository
	vacancyTags repository.VacancyTagRepository
	tagDir      repository.TagRepository
	log         *zap.Logger
}

func NewVacancySync(
	source sheets.Source,
	vacancies repository.VacancyRepository,
	vacancyTags repository.VacancyTagRepository,
	tagDir repository.TagRepository,
	log *zap.Logger,
) *VacancySync {
	if log == nil {
		log = zap.NewNop()
	}
	return &VacancySync{
		source:      source,
		vacancies:   vacancies,
		vacancyTags: vacancyTags,
		tagDir:      tagDir,
		log:         log,
	}
}

// SyncAll pulls the vacancy sheet and upserts every row keyed by
// (title, category), replacing each vacancy's tag set. Rows that have
// disappeared from the sheet are soft-deleted afterwards.
func (u *VacancySync) SyncAll(ctx context.Context) (SyncResult, error) {
	rows, err := u.source.FetchVacancyRows(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	return u.SyncRows(ctx, rows)
}

func (u *VacancySync) SyncRows(ctx context.Context, rows []sheets.VacancyRow) (SyncResult, error) {
	var res SyncResult
	seenIDs := make([]uuid.UUID, 0, len(rows))

	for _, row := range rows {
		v := vacancyFromRow(row)

		id, created, err := u.vacancies.Upsert(ctx, v)
		if err != nil {
			u.log.Error("upsert vacancy", zap.String("title", v.Title), zap.Error(err))
			continue
		}
		seenIDs = append(seenIDs, id)
		if created {
			res.Synced++
		} else {
			res.Updated++
		}

		tagNames := tags.SplitList(row.TagsRaw)
		if err := u.vacancyTags.ReplaceForVacancy(ctx, id, tagNames); err != nil {
			u.log.Error("replace vacancy tags", zap.String("title", v.Title), zap.Error(err))
			continue
		}
		if len(tagNames) > 0 {
			if err := u.tagDir.EnsureExist(ctx, tagNames); err != nil {
				u.log.Warn("tag directory update failed", zap.String("title", v.Title), zap.Error(err))
			}
		}
	}

	if len(rows) > 0 {
		n, err := u.vacancies.DeactivateExcept(ctx, seenIDs)
		if err != nil {
			u.log.Error("deactivate removed vacancies", zap.Error(err))
		} else {
			res.Deactivated = int(n)
		}
	}

	u.log.Info("vacancy sync finished",
		zap.Int("synced", res.Synced),
		zap.Int("updated", res.Updated),
		zap.Int("deactivated", res.Deactivated),
	)
	return res, nil
}

func vacancyFromRow(row sheets.VacancyRow) repository.Vacancy {
	haystack := row.Description + " " + row.Requirements
	return repository.Vacancy{
		Title:        row.Title,
		Description:  row.Description,
		Emoji:        row.Emoji,
		Category:     row.Category,
		Link:         row.Link,
		Level:        row.Level,
		Salary:       row.Salary,
		Requirements: row.Requirements,
		Benefits:     row.Benefits,
		WorkType:     detectWorkType(haystack),
		Location:     detectLocation(haystack),
		IsActive:     true,
	}
}

func detectWorkType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "гибрид") || strings.Contains(lower, "hybrid"):
		return "Гибрид"
	case strings.Contains(lower, "удал") || strings.Contains(lower, "remote"):
		return "Удалёнка"
	case strings.Contains(lower, "офис") || strings.Contains(lower, "office"):
		return "Офис"
	}
	return ""
}

func detectLocation(text string) string {
	lower := strings.ToLower(text)
	for _, city := range []string{"Москва", "Санкт-Петербург", "Новосибирск", "Екатеринбург", "Казань"} {
		if strings.Contains(lower, strings.ToLower(city)) {
			return city
		}
	}
	return ""
}
