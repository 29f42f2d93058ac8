// Package api exposes the expense pipeline over HTTP. It owns uploads,
// identities and JSON shapes; the pipeline stays unaware of any of it.
package api

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/expenselens/walletledger/internal/expense"
	"github.com/expenselens/walletledger/internal/extractor"
	"github.com/expenselens/walletledger/internal/identity"
)

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	processor  *expense.Processor
	users      *identity.DB
	uploadsDir string
	logger     *log.Logger
}

// New creates the handler set.
func New(processor *expense.Processor, users *identity.DB, uploadsDir string, logger *log.Logger) *Handler {
	return &Handler{
		processor:  processor,
		users:      users,
		uploadsDir: uploadsDir,
		logger:     logger,
	}
}

// Register sets up the routes on a fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/auth/register", h.HandleRegister)
	app.Post("/api/auth/login", h.HandleLogin)
	app.Post("/api/statement", h.HandleStatement)
	app.Post("/api/screenshot", h.HandleScreenshot)
	app.Get("/api/dashboard", h.HandleDashboard)
	app.Get("/api/forecast", h.HandleForecast)
	app.Get("/api/admin/users", h.HandleListUsers)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "engine": "fiber"})
}

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Email    string `json:"email" form:"email"`
}

// HandleRegister creates a new account.
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	var creds credentials
	if err := c.BodyParser(&creds); err != nil {
		return badRequest(c, "invalid request body")
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return badRequest(c, "username and password required")
	}

	if err := h.users.Create(creds.Username, creds.Password, creds.Email); err != nil {
		if errors.Is(err, identity.ErrExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "username already exists"})
		}
		h.logger.Error("register failed", "username", creds.Username, "error", err)
		return serverError(c, "failed to create account")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleLogin verifies credentials.
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	var creds credentials
	if err := c.BodyParser(&creds); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !h.users.Verify(strings.TrimSpace(creds.Username), creds.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}
	return c.JSON(fiber.Map{"ok": true, "username": strings.TrimSpace(creds.Username)})
}

// HandleStatement accepts a wallet statement as either an uploaded PDF
// (form file "pdf") or pre-extracted text (form field "text") and appends
// its transactions to the caller's ledger.
func (h *Handler) HandleStatement(c *fiber.Ctx) error {
	user, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	text := c.FormValue("text")
	if text == "" {
		file, err := c.FormFile("pdf")
		if err != nil {
			return badRequest(c, "provide a PDF upload in form field 'pdf' or text in field 'text'")
		}
		if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
			return badRequest(c, "only PDF statements are supported")
		}

		savePath := filepath.Join(h.uploadsDir, uuid.NewString()+".pdf")
		if err := c.SaveFile(file, savePath); err != nil {
			h.logger.Error("upload save failed", "error", err)
			return serverError(c, "failed to save upload")
		}
		defer os.Remove(savePath)

		text, err = extractor.ExtractTextCombined(savePath)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
	}

	result, err := h.processor.AppendStatement(user, text, c.FormValue("ignore_duplicates") != "false")
	if err != nil {
		h.logger.Error("statement append failed", "user", user, "error", err)
		return serverError(c, "failed to persist transactions")
	}
	return c.JSON(fiber.Map{"ok": true, "result": result})
}

// HandleScreenshot accepts OCR'd text for one payment screenshot and
// appends a single entry to the caller's ledger.
func (h *Handler) HandleScreenshot(c *fiber.Ctx) error {
	user, ok := h.requireUser(c)
	if !ok {
		return nil
	}
	text := c.FormValue("text")
	if strings.TrimSpace(text) == "" {
		return badRequest(c, "provide the screenshot's OCR text in form field 'text'")
	}

	entry, result, err := h.processor.AppendScreenshot(user, text)
	if err != nil {
		h.logger.Error("screenshot append failed", "user", user, "error", err)
		return serverError(c, "failed to persist transaction")
	}
	return c.JSON(fiber.Map{"ok": true, "entry": entry, "result": result})
}

// HandleDashboard returns the summary view for a user's ledger.
func (h *Handler) HandleDashboard(c *fiber.Ctx) error {
	user, ok := h.requireUser(c)
	if !ok {
		return nil
	}
	return c.JSON(h.processor.Summarize(user))
}

// HandleForecast returns only the next-month estimate.
func (h *Handler) HandleForecast(c *fiber.Ctx) error {
	user, ok := h.requireUser(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{"forecast": h.processor.Forecast(user)})
}

// HandleListUsers is the admin-only account listing.
func (h *Handler) HandleListUsers(c *fiber.Ctx) error {
	user, ok := h.requireUser(c)
	if !ok {
		return nil
	}
	u, err := h.users.Get(user)
	if err != nil || u == nil || !u.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}
	users, err := h.users.List()
	if err != nil {
		h.logger.Error("user listing failed", "error", err)
		return serverError(c, "failed to list users")
	}
	return c.JSON(users)
}

// requireUser resolves the acting identity from the X-User header or the
// user form/query value, and checks it names a known account. When it
// reports false the response has already been written. The hosting
// deployment is expected to put real authentication in front; the expense
// pipeline itself only ever sees this opaque string.
func (h *Handler) requireUser(c *fiber.Ctx) (string, bool) {
	user := strings.TrimSpace(c.Get("X-User"))
	if user == "" {
		user = strings.TrimSpace(c.FormValue("user"))
	}
	if user == "" {
		user = strings.TrimSpace(c.Query("user"))
	}
	if user == "" {
		badRequest(c, "identify the acting user via X-User header or 'user' parameter")
		return "", false
	}
	if h.users != nil {
		u, err := h.users.Get(user)
		if err != nil {
			h.logger.Error("identity lookup failed", "user", user, "error", err)
			serverError(c, "identity lookup failed")
			return "", false
		}
		if u == nil {
			c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown user"})
			return "", false
		}
	}
	return user, true
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func serverError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
}
