package server

import (
	"chat-hub/auth"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) signup(c *fiber.Ctx) error {
	var req auth.SignupRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	session, err := s.deps.Auth.Signup(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (s *Server) login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	session, err := s.deps.Auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// logout has nothing to revoke: tokens are stateless and simply dropped by the client.
func (s *Server) logout(c *fiber.Ctx) error {
	return c.JSON(messageResponse{Message: "Logged out successfully"})
}

func (s *Server) check(c *fiber.Ctx) error {
	user, err := s.deps.Auth.Check(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	var req auth.UpdateProfileRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	user, err := s.deps.Auth.UpdateProfile(c.UserContext(), auth.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
