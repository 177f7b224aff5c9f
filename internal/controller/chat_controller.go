package controller

import (
	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/pkg/serverutils"
	"chatdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, requireAuth fiber.Handler)
	ListUsers(ctx *fiber.Ctx) error
	ListConversations(ctx *fiber.Ctx) error
	CreateDirect(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	userService service.IUserService
}

func NewChatController(chatService service.IChatService, userService service.IUserService) IChatController {
	return &chatController{
		chatService: chatService,
		userService: userService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, requireAuth fiber.Handler) {
	h := r.Group("/chat")
	h.Use(requireAuth)
	h.Get("users", c.ListUsers)
	h.Get("conversations", c.ListConversations)
	h.Post("direct", c.CreateDirect)
	h.Get("messages", c.GetMessages)
	h.Post("messages", c.SendMessage)
}

func (c *chatController) ListUsers(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.userService.ListChatUsers(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat users", res))
}

func (c *chatController) ListConversations(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.GetUserConversations(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Conversations", res))
}

func (c *chatController) CreateDirect(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateDirectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	res, err := c.chatService.CreateDirectConversation(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Direct conversation", res))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthUserId(ctx)
	if err != nil {
		return err
	}

	conversationId, err := uuid.Parse(ctx.Query("conversation_id"))
	if err != nil {
		return apperr.Validation("conversation_id must be a valid uuid")
	}
	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.chatService.GetConversationMessages(ctx.Context(), userId, conversationId, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Messages", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	res, err := c.chatService.SendMessage(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Message sent", res))
}
