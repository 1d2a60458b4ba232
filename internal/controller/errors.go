package controller

import (
	"errors"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidCoordinate),
		errors.Is(err, model.ErrInvalidPromotion):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotAPlayer):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, service.ErrGameFull),
		errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrEmptySource),
		errors.Is(err, model.ErrPromotionRequired),
		errors.Is(err, model.ErrPromotionNotApplicable):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
