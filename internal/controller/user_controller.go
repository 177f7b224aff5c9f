package controller

import (
	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/pkg/serverutils"
	"chatdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router, requireAuth fiber.Handler)
	Me(ctx *fiber.Ctx) error
	Profile(ctx *fiber.Ctx) error
	UpdateRole(ctx *fiber.Ctx) error
	SetActive(ctx *fiber.Ctx) error
}

type userController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) IUserController {
	return &userController{
		userService: userService,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router, requireAuth fiber.Handler) {
	h := r.Group("/auth")
	h.Use(requireAuth)
	h.Get("me", c.Me)
	h.Get("profile", c.Profile)

	admin := r.Group("/users")
	admin.Use(requireAuth, serverutils.RequireRole(entity.UserRoleAdmin))
	admin.Patch("role", c.UpdateRole)
	admin.Patch("active", c.SetActive)
}

func (c *userController) Me(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.userService.Me(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

// Profile answers from the token claims alone, no database round trip.
func (c *userController) Profile(ctx *fiber.Ctx) error {
	claims, err := serverutils.AuthClaims(ctx)
	if err != nil {
		return err
	}

	res := dto.ProfileResponse{
		Id:       claims.UserId,
		Email:    claims.Email,
		Username: claims.Username,
		Role:     string(claims.Role),
	}

	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *userController) UpdateRole(ctx *fiber.Ctx) error {
	var req dto.UpdateUserRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := c.userService.UpdateRole(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Role updated", nil))
}

func (c *userController) SetActive(ctx *fiber.Ctx) error {
	var req dto.SetUserActiveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := c.userService.SetActive(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("User updated", nil))
}
