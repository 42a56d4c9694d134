package handlers

import (
	"errors"
	"log"

	"katalog/internal/middleware"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves account registration, login and role management.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    models.NewValidator(),
	}
}

// RegisterRoutes registers /auth. Registration and login are public; changing a
// role goes through managerOnly.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, managerOnly ...fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)

	users := authRoutes.Group("/users", managerOnly...)
	users.Put("/:username/role", h.HandleSetRole)
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RoleChange is the body of PUT /auth/users/:username/role.
type RoleChange struct {
	Role string `json:"role" validate:"required,oneof=catalog_manager viewer"`
}

// HandleRegister creates an account. The first account manages the catalog.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(user); err != nil {
		return validationFailed(c, "Validation failed", err)
	}

	if err := h.authService.RegisterUser(&user); err != nil {
		if errors.Is(err, services.ErrUserExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Registration failed",
				"error":   err.Error(),
			})
		}
		log.Printf("Error registering %s: %v", user.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not register user",
			"error":   err.Error(),
		})
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// HandleLogin exchanges credentials for a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var creds Credentials
	if err := c.BodyParser(&creds); err != nil {
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(creds); err != nil {
		return validationFailed(c, "Validation failed", err)
	}

	session, err := h.authService.LoginUser(creds.Username, creds.Password)
	if err != nil {
		log.Printf("Login failed for %s: %v", creds.Username, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Login successful",
		"token":     session.Token,
		"role":      session.Role,
		"expiresAt": session.ExpiresAt,
	})
}

// HandleSetRole grants or revokes catalog management for an account. The new
// role applies to tokens issued after the change.
func (h *AuthHandler) HandleSetRole(c *fiber.Ctx) error {
	username := c.Params("username")
	var change RoleChange
	if err := c.BodyParser(&change); err != nil {
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(change); err != nil {
		return validationFailed(c, "Validation failed", err)
	}

	user, err := h.authService.SetRole(username, change.Role)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User " + username + " not found",
			})
		}
		log.Printf("Error setting role of %s: %v", username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not change role",
			"error":   err.Error(),
		})
	}

	log.Printf("%v set role of %s to %s", c.Locals(middleware.LocalUsername), username, change.Role)
	return c.JSON(fiber.Map{
		"message": "Role updated",
		"user":    user,
	})
}
