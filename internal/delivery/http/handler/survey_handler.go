package handler

import (
	"strings"

	"hirepulse/internal/delivery/http/middleware"
	"hirepulse/internal/domain/tags"
	"hirepulse/internal/pkg/response"
	"hirepulse/internal/repository"

	"github.com/gofiber/fiber/v3"
)

// SurveyHandler serves the web form's read endpoints: the current survey
// definition and the tag directory backing its option lists.
type SurveyHandler struct {
	questions repository.SurveyQuestionRepository
	tagDir    repository.TagRepository
}

type surveyQuestionItem struct {
	Position int      `json:"position"`
	Category string   `json:"category"`
	Field    string   `json:"field"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type tagItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func NewSurveyHandler(questions repository.SurveyQuestionRepository, tagDir repository.TagRepository) *SurveyHandler {
	return &SurveyHandler{questions: questions, tagDir: tagDir}
}

func (h *SurveyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/survey/questions", h.ListQuestions)
	r.Get("/tags", h.ListTags)
}

func (h *SurveyHandler) ListQuestions(c fiber.Ctx) error {
	questions, err := h.questions.ListOrdered(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	items := make([]surveyQuestionItem, 0, len(questions))
	for _, q := range questions {
		items = append(items, surveyQuestionItem{
			Position: q.Position,
			Category: q.Category,
			Field:    q.Field,
			Question: q.Question,
			Options:  splitOptions(q.Options),
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

// ListTags returns the directory entries for one category, so the form can
// offer known tags instead of free text.
func (h *SurveyHandler) ListTags(c fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "category is required", nil, nil)
	}

	found, err := h.tagDir.ListByCategory(c.Context(), tags.Category(category))
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	items := make([]tagItem, 0, len(found))
	for _, t := range found {
		items = append(items, tagItem{Name: t.Name, Category: string(t.Category)})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

// splitOptions parses the sheet's semicolon-separated options column.
func splitOptions(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
