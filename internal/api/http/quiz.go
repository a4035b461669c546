package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/skypulse/internal/quiz"
)

type answerRequest struct {
	Option *int `json:"option" validate:"required,gte=0"`
}

func (h *handler) createQuiz(c *fiber.Ctx) error {
	snapshot, err := h.snapshot(c)
	if err != nil {
		return err
	}

	session := quiz.NewSession(h.Generator.GenerateFrom(snapshot), h.Best)
	h.Sessions.Add(session)

	state, err := session.State(c.UserContext())
	if err != nil {
		return h.quizError(err)
	}
	h.logger.Debug("quiz session created", "session", session.ID(), "questions", state.Total)
	return c.Status(fiber.StatusCreated).JSON(state)
}

func (h *handler) getQuiz(c *fiber.Ctx) error {
	session, err := h.Sessions.Get(c.Params("id"))
	if err != nil {
		return h.quizError(err)
	}
	state, err := session.State(c.UserContext())
	if err != nil {
		return h.quizError(err)
	}
	return c.JSON(state)
}

func (h *handler) answerQuiz(c *fiber.Ctx) error {
	session, err := h.Sessions.Get(c.Params("id"))
	if err != nil {
		return h.quizError(err)
	}

	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := session.Answer(c.UserContext(), *req.Option)
	if err != nil {
		return h.quizError(err)
	}
	return c.JSON(result)
}

func (h *handler) nextQuestion(c *fiber.Ctx) error {
	session, err := h.Sessions.Get(c.Params("id"))
	if err != nil {
		return h.quizError(err)
	}
	state, err := session.Next(c.UserContext())
	if err != nil {
		return h.quizError(err)
	}
	return c.JSON(state)
}

func (h *handler) resetQuiz(c *fiber.Ctx) error {
	session, err := h.Sessions.Get(c.Params("id"))
	if err != nil {
		return h.quizError(err)
	}
	state, err := session.Reset(c.UserContext())
	if err != nil {
		return h.quizError(err)
	}
	return c.JSON(state)
}

func (h *handler) getBestScore(c *fiber.Ctx) error {
	best, err := h.Best.Get(c.UserContext())
	if err != nil {
		return h.quizError(err)
	}
	return c.JSON(fiber.Map{"bestScore": best})
}

func (h *handler) quizError(err error) error {
	switch {
	case errors.Is(err, quiz.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, quiz.ErrOptionOutOfRange):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, quiz.ErrAlreadyAnswered), errors.Is(err, quiz.ErrDeckFinished):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		h.logger.Error("quiz request failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to process quiz request")
	}
}
