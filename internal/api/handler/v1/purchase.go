package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confaro/confaro-api/internal/api/handler/v1/request"
	"github.com/confaro/confaro-api/internal/api/handler/v1/response"
	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
)

type PurchaseService interface {
	Purchase(ctx context.Context, conference domain.Conference, user domain.User, desired map[uint]int, code currency.Code) (string, error)
	ListUnpaid(ctx context.Context, conferenceID, userID uint) ([]domain.TicketPurchase, error)
}

type PurchaseHandler struct {
	svc     PurchaseService
	confSvc ConferenceService
	uSvc    UserService
}

func NewPurchaseHandler(svc PurchaseService, confSvc ConferenceService, uSvc UserService) *PurchaseHandler {
	return &PurchaseHandler{
		svc:     svc,
		confSvc: confSvc,
		uSvc:    uSvc,
	}
}

// HandlePurchaseTickets godoc
// @Summary      Purchase tickets
// @Description  Books the requested ticket quantities for the authenticated user in one transaction
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        shortTitle  path      string                          true  "Conference short title"
// @Param        input       body      request.PurchaseTicketsRequest  true  "Requested ticket quantities"
// @Success      200         {object}  response.PurchaseTicketsResponse
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /conferences/{shortTitle}/purchases [post]
// @Security BearerAuth
func (h *PurchaseHandler) HandlePurchaseTickets(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conference, respErr := getConferenceFromPath(ctx, h.confSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.PurchaseTicketsRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	message, err := h.svc.Purchase(ctx.Request.Context(), conference, user, input.Quantities(), currency.Code(input.Currency))
	if err != nil {
		err = fmt.Errorf("HandlePurchaseTickets -> h.svc.Purchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if message != "" {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("oops, something went wrong with tickets. %v", message)))
		return
	}

	unpaid, err := h.svc.ListUnpaid(ctx.Request.Context(), conference.ID, user.ID)
	if err != nil {
		err = fmt.Errorf("HandlePurchaseTickets -> h.svc.ListUnpaid -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	purchases := make([]response.PurchaseResponse, 0, len(unpaid))
	for i := range unpaid {
		purchases = append(purchases, response.NewPurchaseResponse(&unpaid[i]))
	}

	ctx.JSON(http.StatusOK, response.PurchaseTicketsResponse{
		Message:   "Tickets successfully booked!",
		Purchases: purchases,
	})
}

// HandleListUnpaidPurchases godoc
// @Summary      List unpaid purchases
// @Description  Retrieves the authenticated user's unpaid ticket purchases for a conference
// @Tags         purchases
// @Produce      json
// @Param        shortTitle  path      string  true  "Conference short title"
// @Success      200         {array}   response.PurchaseResponse
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /conferences/{shortTitle}/purchases [get]
// @Security BearerAuth
func (h *PurchaseHandler) HandleListUnpaidPurchases(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conference, respErr := getConferenceFromPath(ctx, h.confSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	unpaid, err := h.svc.ListUnpaid(ctx.Request.Context(), conference.ID, user.ID)
	if err != nil {
		err = fmt.Errorf("HandleListUnpaidPurchases -> h.svc.ListUnpaid -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	purchases := make([]response.PurchaseResponse, 0, len(unpaid))
	for i := range unpaid {
		purchases = append(purchases, response.NewPurchaseResponse(&unpaid[i]))
	}

	ctx.JSON(http.StatusOK, purchases)
}
