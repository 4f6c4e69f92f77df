package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/confaro/confaro-api/internal/api/handler/v1/request"
	"github.com/confaro/confaro-api/internal/api/handler/v1/response"
	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/service"
)

type TicketManager interface {
	CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	UpdateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	DeleteTicket(ctx context.Context, id uint) error
	GetTicket(ctx context.Context, id uint) (domain.Ticket, error)
	GetTickets(ctx context.Context, conferenceID uint) ([]domain.Ticket, error)
}

type TicketGiver interface {
	Give(ctx context.Context, conference domain.Conference, ticket domain.Ticket, recipient domain.User) (service.GiveResult, error)
}

type PurchaseRemover interface {
	RemovePurchase(ctx context.Context, id uint) (domain.TicketPurchase, error)
}

type AdminTicketHandler struct {
	tickets   TicketManager
	giver     TicketGiver
	purchases PurchaseRemover
	confSvc   ConferenceService
	uSvc      UserService
}

func NewAdminTicketHandler(tickets TicketManager, giver TicketGiver, purchases PurchaseRemover, confSvc ConferenceService, uSvc UserService) *AdminTicketHandler {
	return &AdminTicketHandler{
		tickets:   tickets,
		giver:     giver,
		purchases: purchases,
		confSvc:   confSvc,
		uSvc:      uSvc,
	}
}

// requireAdmin resolves the authenticated user and the conference from the
// request, rejecting non-admins.
func (h *AdminTicketHandler) requireAdmin(ctx *gin.Context) (domain.Conference, *response.Err) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return domain.Conference{}, respErr
	}

	if !user.Admin {
		return domain.Conference{}, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID))
	}

	return getConferenceFromPath(ctx, h.confSvc)
}

// HandleListTickets godoc
// @Summary      List tickets
// @Description  Retrieves all tickets of a conference, including hidden ones
// @Tags         admin-tickets
// @Produce      json
// @Param        shortTitle  path      string  true  "Conference short title"
// @Success      200         {array}   response.TicketResponse
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/conferences/{shortTitle}/tickets [get]
// @Security BearerAuth
func (h *AdminTicketHandler) HandleListTickets(ctx *gin.Context) {
	conference, respErr := h.requireAdmin(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tickets, err := h.tickets.GetTickets(ctx.Request.Context(), conference.ID)
	if err != nil {
		err = fmt.Errorf("HandleListTickets -> h.tickets.GetTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewTicketsResponse(tickets))
}

// HandleCreateTicket godoc
// @Summary      Create a ticket
// @Description  Creates a new ticket type for a conference
// @Tags         admin-tickets
// @Accept       json
// @Produce      json
// @Param        shortTitle  path      string                       true  "Conference short title"
// @Param        input       body      request.CreateTicketRequest  true  "Ticket details"
// @Success      201         {object}  response.TicketResponse
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/conferences/{shortTitle}/tickets [post]
// @Security BearerAuth
func (h *AdminTicketHandler) HandleCreateTicket(ctx *gin.Context) {
	conference, respErr := h.requireAdmin(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateTicketRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.tickets.CreateTicket(ctx.Request.Context(), domain.Ticket{
		ConferenceID:       conference.ID,
		Title:              input.Title,
		Description:        input.Description,
		Price:              input.PriceDecimal(),
		PriceCurrency:      currency.Code(input.PriceCurrency),
		RegistrationTicket: input.RegistrationTicket,
		Visible:            input.Visible,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCurrency) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleCreateTicket -> h.tickets.CreateTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewTicketResponse(&created))
}

// HandleGetTicket godoc
// @Summary      Get a ticket
// @Tags         admin-tickets
// @Produce      json
// @Param        shortTitle  path      string  true  "Conference short title"
// @Param        ticketID    path      int     true  "Ticket ID"
// @Success      200         {object}  response.TicketResponse
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/conferences/{shortTitle}/tickets/{ticketID} [get]
// @Security BearerAuth
func (h *AdminTicketHandler) HandleGetTicket(ctx *gin.Context) {
	if _, respErr := h.requireAdmin(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticket, respErr := h.ticketFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, response.NewTicketResponse(&ticket))
}

// HandleUpdateTicket godoc
// @Summary      Update a ticket
// @Tags         admin-tickets
// @Accept       json
// @Produce      json
// @Param        shortTitle  path      string                       true  "Conference short title"
// @Param        ticketID    path      int                          true  "Ticket ID"
// @Param        input       body      request.UpdateTicketRequest  true  "Ticket details"
// @Success      200         {object}  response.TicketResponse
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/conferences/{shortTitle}/tickets/{ticketID} [put]
// @Security BearerAuth
func (h *AdminTicketHandler) HandleUpdateTicket(ctx *gin.Context) {
	if _, respErr := h.requireAdmin(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticket, respErr := h.ticketFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.UpdateTicketRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket.Title = input.Title
	ticket.Description = input.Description
	ticket.Price = input.PriceDecimal()
	ticket.PriceCurrency = currency.Code(input.PriceCurrency)
	ticket.RegistrationTicket = input.RegistrationTicket
	ticket.Visible = input.Visible

	updated, err := h.tickets.UpdateTicket(ctx.Request.Context(), ticket)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCurrency) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleUpdateTicket -> h.tickets.UpdateTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewTicketResponse(&updated))
}

// HandleDeleteTicket godoc
// @Summary      Delete a ticket
// @Tags         admin-tickets
// @Produce      json
// @Param        shortTitle  path      string  true  "Conference short title"
// @Param        ticketID    path      int     true  "Ticket ID"
// @Success      204         "No Content"
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/conferences/{shortTitle}/tickets/{ticketID} [delete]
// @Security BearerAuth
func (h *AdminTicketHandler) HandleDeleteTicket(ctx *gin.Context) {
	if _, respErr := h.requireAdmin(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticket, respErr := h.ticketFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.tickets.DeleteTicket(ctx.Request.Context(), ticket.ID); err != nil {
		err = fmt.Errorf("HandleDeleteTicket -> h.tickets.DeleteTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGiveTicket godoc
// @Summary      Give a ticket to a user
// @Description  Grants a user a free paid ticket, removing their unpaid registration purchases first
// @Tags         admin-tickets
// @Accept       json
// @Produce      json
// @Param        shortTitle  path      string                     true  "Conference short title"
// @Param        ticketID    path      int                        true  "Ticket ID"
// @Param        input       body      request.GiveTicketRequest  true  "Recipient"
// @Success      200         {object}  response.GiveTicketResponse
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/conferences/{shortTitle}/tickets/{ticketID}/give [post]
// @Security BearerAuth
func (h *AdminTicketHandler) HandleGiveTicket(ctx *gin.Context) {
	conference, respErr := h.requireAdmin(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticket, respErr := h.ticketFromPath(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.GiveTicketRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	recipient, err := h.uSvc.GetUser(ctx.Request.Context(), input.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", input.UserID))
			return
		}

		err = fmt.Errorf("HandleGiveTicket -> h.uSvc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	result, err := h.giver.Give(ctx.Request.Context(), conference, ticket, recipient)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateRegistrationTicket) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleGiveTicket -> h.giver.Give -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.GiveTicketResponse{
		Message:       fmt.Sprintf("ticket %q given to user %v", ticket.Title, recipient.ID),
		Purchase:      response.NewPurchaseResponse(&result.Purchase),
		RemovedUnpaid: result.RemovedUnpaid,
		Registered:    result.Registered,
	})
}

// HandleRemovePurchase godoc
// @Summary      Remove a purchase
// @Description  Deletes a ticket purchase and its physical tickets
// @Tags         admin-tickets
// @Produce      json
// @Param        shortTitle  path      string  true  "Conference short title"
// @Param        purchaseID  path      int     true  "Purchase ID"
// @Success      204         "No Content"
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/conferences/{shortTitle}/purchases/{purchaseID} [delete]
// @Security BearerAuth
func (h *AdminTicketHandler) HandleRemovePurchase(ctx *gin.Context) {
	if _, respErr := h.requireAdmin(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	purchaseID, err := strconv.ParseUint(ctx.Param("purchaseID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid purchase ID -> %w", err)))
		return
	}

	if _, err = h.purchases.RemovePurchase(ctx.Request.Context(), uint(purchaseID)); err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("purchase", "ID", purchaseID))
			return
		}

		err = fmt.Errorf("HandleRemovePurchase -> h.purchases.RemovePurchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *AdminTicketHandler) ticketFromPath(ctx *gin.Context) (domain.Ticket, *response.Err) {
	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 64)
	if err != nil {
		return domain.Ticket{}, response.ErrBadRequest(fmt.Errorf("invalid ticket ID -> %w", err))
	}

	ticket, err := h.tickets.GetTicket(ctx.Request.Context(), uint(ticketID))
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			return domain.Ticket{}, response.ErrNotFound("ticket", "ID", ticketID)
		}

		err = fmt.Errorf("ticketFromPath -> h.tickets.GetTicket -> %w", err)
		return domain.Ticket{}, response.ErrInternalServerError(err)
	}

	return ticket, nil
}
