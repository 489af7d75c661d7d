package server

import (
	"chat-hub/auth"
	"chat-hub/domain"
	"chat-hub/errors"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) contacts(c *fiber.Ctx) error {
	users, err := s.deps.Conversations.Contacts(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (s *Server) chats(c *fiber.Ctx) error {
	conversations, err := s.deps.Conversations.ChatPartners(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(conversations)
}

func (s *Server) directMessages(c *fiber.Ctx) error {
	return s.messages(c, domain.DirectTarget(c.Params("id")))
}

func (s *Server) groupMessages(c *fiber.Ctx) error {
	return s.messages(c, domain.GroupTarget(c.Params("id")))
}

func (s *Server) messages(c *fiber.Ctx, target domain.Target) error {
	messages, err := s.deps.Router.Messages(c.UserContext(), auth.UserID(c), target)
	if err != nil {
		return err
	}
	return c.JSON(messages)
}

// sendMessage targets the user :id, or the group :id when the body names it.
func (s *Server) sendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	target := domain.DirectTarget(c.Params("id"))
	if req.GroupID != "" {
		if !domain.SameID(req.GroupID, c.Params("id")) {
			return errors.ErrMismatchedTarget
		}
		target = domain.GroupTarget(req.GroupID)
	}

	message, err := s.deps.Router.Send(c.UserContext(), auth.UserID(c), target,
		domain.Body{Text: req.Text, Image: req.Image})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func (s *Server) markRead(c *fiber.Ctx) error {
	var req MarkReadRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if err := s.deps.Router.MarkRead(c.UserContext(), auth.UserID(c), req.MessageIDs); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) online(c *fiber.Ctx) error {
	return c.JSON(s.deps.Registry.OnlineSet())
}
