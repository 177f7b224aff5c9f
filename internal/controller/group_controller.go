package controller

import (
	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/pkg/serverutils"
	"chatdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGroupController interface {
	RegisterRoutes(r fiber.Router, requireAuth fiber.Handler)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	AddMember(ctx *fiber.Ctx) error
	RemoveMember(ctx *fiber.Ctx) error
}

type groupController struct {
	groupService service.IGroupService
}

func NewGroupController(groupService service.IGroupService) IGroupController {
	return &groupController{
		groupService: groupService,
	}
}

func (c *groupController) RegisterRoutes(r fiber.Router, requireAuth fiber.Handler) {
	h := r.Group("/chat/groups")
	h.Use(requireAuth, serverutils.RequireRole(entity.UserRoleAdmin, entity.UserRoleManagement))
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Patch("", c.Update)
	// Deleting a group is admin only.
	h.Delete(":id", serverutils.RequireRole(entity.UserRoleAdmin), c.Delete)
	h.Post("members", c.AddMember)
	h.Delete("members", c.RemoveMember)
}

func (c *groupController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateGroupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	res, err := c.groupService.CreateGroup(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Group created", res))
}

func (c *groupController) List(ctx *fiber.Ctx) error {
	res, err := c.groupService.ListGroups(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Groups", res))
}

func (c *groupController) Update(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateGroupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := c.groupService.UpdateGroup(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Group updated", nil))
}

func (c *groupController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthUserId(ctx)
	if err != nil {
		return err
	}

	groupId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validation("group id must be a valid uuid")
	}

	if err := c.groupService.DeleteGroup(ctx.Context(), userId, groupId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Group deleted", nil))
}

func (c *groupController) AddMember(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.GroupMemberRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := c.groupService.AddMember(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Member added", nil))
}

func (c *groupController) RemoveMember(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.GroupMemberRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := c.groupService.RemoveMember(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Member removed", nil))
}
