package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

// Login authenticates by email and returns the user record
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// Signup registers a new account
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.auth.Signup(c.Context(), req.Email, req.Username, req.Password, req.ReferralCode)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

// Session returns the freshly resolved caller
func (h *Handler) Session(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": currentUser(c)})
}

type profileRequest struct {
	Username      string `json:"username"`
	GameUID       string `json:"game_uid"`
	AvatarURL     string `json:"avatar_url"`
	Bio           string `json:"bio"`
	Gender        string `json:"gender"`
	InstagramLink string `json:"instagram_link"`
	FacebookLink  string `json:"facebook_link"`
}

// UpdateProfile updates the caller's own profile fields
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user := *currentUser(c)
	if req.Username != "" {
		user.Username = req.Username
	}
	user.GameUID = req.GameUID
	user.AvatarURL = req.AvatarURL
	user.Bio = req.Bio
	user.Gender = req.Gender
	user.InstagramLink = req.InstagramLink
	user.FacebookLink = req.FacebookLink

	if err := h.sessions.UpdateProfile(c.Context(), &user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}
