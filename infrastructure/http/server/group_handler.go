package server

import (
	"chat-hub/auth"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) createGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	group, err := s.deps.Groups.Create(c.UserContext(), auth.UserID(c), req.Name, req.Members)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

func (s *Server) myGroups(c *fiber.Ctx) error {
	groups, err := s.deps.Groups.ListMine(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(groups)
}

func (s *Server) addMember(c *fiber.Ctx) error {
	var req MemberRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	group, err := s.deps.Groups.AddMember(c.UserContext(), auth.UserID(c), c.Params("groupId"), req.MemberID)
	if err != nil {
		return err
	}
	return c.JSON(group)
}

func (s *Server) removeMember(c *fiber.Ctx) error {
	var req MemberRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	group, err := s.deps.Groups.RemoveMember(c.UserContext(), auth.UserID(c), c.Params("groupId"), req.MemberID)
	if err != nil {
		return err
	}
	return c.JSON(group)
}
