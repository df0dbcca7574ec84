package handler

import (
	"fmt"
	"time"

	"hirepulse/internal/delivery/http/middleware"
	"hirepulse/internal/infrastructure/cache"
	"hirepulse/internal/pkg/response"
	"hirepulse/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const matchPreviewTTL = 5 * time.Minute

type MatchHandler struct {
	matcher usecase.MatcherUsecase
	cache   *cache.Redis
}

type matchItem struct {
	VacancyID   uuid.UUID `json:"vacancy_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Salary      string    `json:"salary,omitempty"`
	WorkType    string    `json:"work_type,omitempty"`
	Location    string    `json:"location,omitempty"`
	Link        string    `json:"link,omitempty"`
	MatchCount  int       `json:"match_count"`
	MatchedTags []string  `json:"matched_tags"`
}

func NewMatchHandler(matcher usecase.MatcherUsecase, c *cache.Redis) *MatchHandler {
	return &MatchHandler{matcher: matcher, cache: c}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/matches", h.List)
}

// List previews the user's current matches for the web form. The preview is
// informational only: it does not write the notification ledger, so a
// previewed vacancy can still be delivered by the next cycle.
func (h *MatchHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(int64)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	key := fmt.Sprintf("matches:%d", userID)

	var cached []matchItem
	if hit, err := h.cache.GetJSON(c.Context(), key, &cached); err == nil && hit {
		return response.Success(c, fiber.StatusOK, response.MessageOK, cached)
	}

	matches := h.matcher.FindMatches(c.Context(), userID)

	items := make([]matchItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchItem{
			VacancyID:   m.Vacancy.ID,
			Title:       m.Vacancy.Title,
			Category:    m.Vacancy.Category,
			Salary:      m.Vacancy.Salary,
			WorkType:    m.Vacancy.WorkType,
			Location:    m.Vacancy.Location,
			Link:        m.Vacancy.Link,
			MatchCount:  m.MatchCount,
			MatchedTags: m.MatchedTags,
		})
	}

	_ = h.cache.SetJSON(c.Context(), key, items, matchPreviewTTL)

	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}
