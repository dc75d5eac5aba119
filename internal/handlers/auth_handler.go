package handlers

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"quickbite/internal/models"
	"quickbite/internal/services"
)

// AuthHandler handles HTTP requests for customer and seller authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegisterUser)
	authRoutes.Post("/login", h.HandleLoginUser)
	authRoutes.Post("/seller/register", h.HandleRegisterSeller)
	authRoutes.Post("/seller/login", h.HandleLoginSeller)
}

// LoginRequest is the request body for both login endpoints.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegisterUser registers a new customer account.
func (h *AuthHandler) HandleRegisterUser(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(user); err != nil {
		return h.validationFailure(c, err)
	}

	if err := h.authService.RegisterUser(&user); err != nil {
		return fail(c, err)
	}

	user.Password = ""
	return respond(c, fiber.StatusCreated, "User registered successfully", fiber.Map{
		"user": user,
	})
}

// HandleLoginUser authenticates a customer and issues a JWT.
func (h *AuthHandler) HandleLoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailure(c, err)
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	user.Password = ""
	return respond(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// HandleRegisterSeller registers a new cafeteria operator.
func (h *AuthHandler) HandleRegisterSeller(c *fiber.Ctx) error {
	var seller models.Seller
	if err := c.BodyParser(&seller); err != nil {
		log.Printf("Error parsing seller register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(seller); err != nil {
		return h.validationFailure(c, err)
	}

	if err := h.authService.RegisterSeller(&seller); err != nil {
		return fail(c, err)
	}

	seller.Password = ""
	return respond(c, fiber.StatusCreated, "Seller registered successfully", fiber.Map{
		"seller": seller,
	})
}

// HandleLoginSeller authenticates a seller and issues a JWT.
func (h *AuthHandler) HandleLoginSeller(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailure(c, err)
	}

	token, seller, err := h.authService.LoginSeller(req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	seller.Password = ""
	return respond(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token":  token,
		"seller": seller,
	})
}

func (h *AuthHandler) validationFailure(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
