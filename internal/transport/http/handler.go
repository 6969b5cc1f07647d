package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hotseat/internal/core"
	"hotseat/internal/obslog"
	"hotseat/internal/processor"
	"hotseat/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const defaultRateLimit = 10 // req/sec

type Options struct {
	Dev       bool
	RateLimit int // requests per second per client, doubled in dev mode
}

// HTTPHandler routes requests to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, opts Options) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          35 * time.Second, // long polls hold up to the wait timeout
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
		Output: zap.NewStdLog(obslog.L().Named("http")).Writer(),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := opts.RateLimit
	if maxReq <= 0 {
		maxReq = defaultRateLimit
	}
	if opts.Dev {
		maxReq *= 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:          maxReq,
		Expiration:   1 * time.Second,
		KeyGenerator: clientKey,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/sessions", h.CreateSession)
	api.Get("/sessions/:sessionId", h.GetSession)
	api.Delete("/sessions/:sessionId", h.DeleteSession)
	api.Post("/sessions/:sessionId/select", h.SelectSquare)
	api.Get("/sessions/:sessionId/moves", h.LegalMoves)
	api.Post("/sessions/:sessionId/moves", h.MakeMove)
	api.Post("/sessions/:sessionId/reset", h.ResetSession)
	api.Get("/sessions/:sessionId/board", h.GetBoard)

	api.Get("/prefs/:clientId/theme", h.GetTheme)
	api.Put("/prefs/:clientId/theme", h.SetTheme)
	api.Post("/prefs/:clientId/theme/toggle", h.ToggleTheme)

	return app
}

// clientKey prefers the first X-Forwarded-For hop over the peer address
func clientKey(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	return c.IP()
}

// contentTypeValidator ensures POST and PUT requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodPost || method == fiber.MethodPut {
		contentType := c.Get("Content-Type")
		if contentType != "application/json" && contentType != "" {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	} else {
		obslog.L().Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
	}

	return c.Status(code).JSON(response)
}

// statusFor maps a processor error code to an HTTP status
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrGameOver:
		return fiber.StatusConflict
	case core.ErrResourceLimit:
		return fiber.StatusServiceUnavailable
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func reply(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(okStatus)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

func badSessionID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid session ID format",
		Code:    core.ErrInvalidRequest,
		Details: "session ID must be a valid UUID",
	})
}

// Health reports liveness and archive status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Unix(),
		"sessions": h.svc.Count(),
		"storage":  h.svc.StorageHealth(),
	})
}

func (h *HTTPHandler) CreateSession(c *fiber.Ctx) error {
	resp := h.proc.Execute(c.UserContext(), processor.NewCreateSessionCommand())
	return reply(c, resp, fiber.StatusCreated)
}

// GetSession returns the session state. With wait=true it long-polls until the
// ply count differs from plies, the wait times out or the client goes away.
func (h *HTTPHandler) GetSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if !isValidUUID(sessionID) {
		return badSessionID(c)
	}

	if c.Query("wait", "false") == "true" {
		plies, err := strconv.Atoi(c.Query("plies", "-1"))
		if err != nil {
			plies = -1
		}

		ctx := c.Context()
		notify, err := h.svc.Wait(ctx, sessionID, plies)
		if err != nil {
			return reply(c, h.proc.Execute(c.UserContext(), processor.NewGetSessionCommand(sessionID)), fiber.StatusOK)
		}

		select {
		case <-notify:
		case <-ctx.Done():
			return nil
		}
	}

	resp := h.proc.Execute(c.UserContext(), processor.NewGetSessionCommand(sessionID))
	return reply(c, resp, fiber.StatusOK)
}

func (h *HTTPHandler) DeleteSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if !isValidUUID(sessionID) {
		return badSessionID(c)
	}

	resp := h.proc.Execute(c.UserContext(), processor.NewDeleteSessionCommand(sessionID))
	return reply(c, resp, fiber.StatusNoContent)
}

func (h *HTTPHandler) SelectSquare(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if !isValidUUID(sessionID) {
		return badSessionID(c)
	}

	req, err := validatedBody[core.SelectRequest](c)
	if err != nil {
		return err
	}

	resp := h.proc.Execute(c.UserContext(), processor.NewSelectSquareCommand(sessionID, *req))
	return reply(c, resp, fiber.StatusOK)
}

// LegalMoves lists destinations for ?square=, or every move of the side to move
func (h *HTTPHandler) LegalMoves(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if !isValidUUID(sessionID) {
		return badSessionID(c)
	}

	resp := h.proc.Execute(c.UserContext(), processor.NewLegalMovesCommand(sessionID, c.Query("square")))
	return reply(c, resp, fiber.StatusOK)
}

func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if !isValidUUID(sessionID) {
		return badSessionID(c)
	}

	req, err := validatedBody[core.MoveRequest](c)
	if err != nil {
		return err
	}

	resp := h.proc.Execute(c.UserContext(), processor.NewMakeMoveCommand(sessionID, *req))
	return reply(c, resp, fiber.StatusOK)
}

func (h *HTTPHandler) ResetSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if !isValidUUID(sessionID) {
		return badSessionID(c)
	}

	resp := h.proc.Execute(c.UserContext(), processor.NewResetSessionCommand(sessionID))
	return reply(c, resp, fiber.StatusOK)
}

// GetBoard returns the ASCII rendering of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if !isValidUUID(sessionID) {
		return badSessionID(c)
	}

	resp := h.proc.Execute(c.UserContext(), processor.NewGetBoardCommand(sessionID))
	return reply(c, resp, fiber.StatusOK)
}

func (h *HTTPHandler) GetTheme(c *fiber.Ctx) error {
	resp := h.proc.Execute(c.UserContext(), processor.NewGetThemeCommand(c.Params("clientId")))
	return reply(c, resp, fiber.StatusOK)
}

func (h *HTTPHandler) SetTheme(c *fiber.Ctx) error {
	req, err := validatedBody[core.ThemeRequest](c)
	if err != nil {
		return err
	}

	resp := h.proc.Execute(c.UserContext(), processor.NewSetThemeCommand(c.Params("clientId"), *req))
	return reply(c, resp, fiber.StatusOK)
}

func (h *HTTPHandler) ToggleTheme(c *fiber.Ctx) error {
	resp := h.proc.Execute(c.UserContext(), processor.NewToggleThemeCommand(c.Params("clientId")))
	return reply(c, resp, fiber.StatusOK)
}
