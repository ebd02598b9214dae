package handler

import (
	"go-bizkeeper/internal/model"
	"go-bizkeeper/internal/store"
	"go-bizkeeper/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth   *store.AuthStore
	issuer *jwt.Issuer
	log    *zap.Logger
}

func NewAuthHandler(auth *store.AuthStore, issuer *jwt.Issuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, issuer: issuer, log: log}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sess, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return h.respondSession(c, fiber.StatusOK, sess)
}

// Register creates a local account and signs it in
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sess, err := h.auth.Register(req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return h.respondSession(c, fiber.StatusCreated, sess)
}

// Logout ends the session; every issued token stops working
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.auth.Logout()
	h.log.Info("user signed out", zap.String("email", getUserEmail(c)))
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// Me returns the signed-in user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := h.auth.Current()
	if !ok {
		return respondError(c, h.log, store.ErrNotAuthenticated)
	}
	return c.JSON(user)
}

func (h *AuthHandler) respondSession(c *fiber.Ctx, status int, sess store.Session) error {
	token, err := h.issuer.GenerateToken(sess.User.ID, sess.User.Email, sess.User.Name, string(sess.User.Role), sess.Version)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(status).JSON(sessionResponse{Token: token, User: sess.User})
}
