package server

import (
	"chat-hub/auth"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) sendFriendRequest(c *fiber.Ctx) error {
	link, err := s.deps.Relationships.SendRequest(c.UserContext(), auth.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

func (s *Server) acceptFriendRequest(c *fiber.Ctx) error {
	if err := s.deps.Relationships.AcceptRequest(c.UserContext(), c.Params("requestId"), auth.UserID(c)); err != nil {
		return err
	}
	return c.JSON(messageResponse{Message: "Friend request accepted"})
}

func (s *Server) friendRequests(c *fiber.Ctx) error {
	requests, err := s.deps.Relationships.ListIncomingRequests(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(requests)
}

func (s *Server) friendList(c *fiber.Ctx) error {
	friends, err := s.deps.Relationships.ListFriends(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(friends)
}

func (s *Server) suggestions(c *fiber.Ctx) error {
	users, err := s.deps.Relationships.ListSuggestions(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(users)
}
