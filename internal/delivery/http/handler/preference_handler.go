package handler

import (
	"errors"

	"hirepulse/internal/delivery/http/middleware"
	"hirepulse/internal/domain/tags"
	"hirepulse/internal/pkg/response"
	"hirepulse/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type PreferenceHandler struct {
	uc usecase.PreferenceUsecase
}

type savePreferencesRequest struct {
	Preferences tags.RawPreferences `json:"preferences"`
}

func NewPreferenceHandler(uc usecase.PreferenceUsecase) *PreferenceHandler {
	return &PreferenceHandler{uc: uc}
}

func (h *PreferenceHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/preferences", h.Save)
}

// Save accepts the web-form submission. The user identity always comes from
// the validated token, never from the body, so one user cannot overwrite
// another's subscription.
func (h *PreferenceHandler) Save(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(int64)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	username, _ := c.Locals(middleware.CtxUsernameKey).(string)
	firstName, _ := c.Locals(middleware.CtxFirstNameKey).(string)

	var req savePreferencesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	err := h.uc.Save(c.Context(), usecase.PreferenceSubmission{
		UserID:      userID,
		Username:    username,
		FirstName:   firstName,
		Preferences: req.Preferences,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSubmission) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
