package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confaro/confaro-api/internal/api/handler/v1/response"
	"github.com/confaro/confaro-api/internal/domain"
)

type VisibleTicketLister interface {
	GetVisibleTickets(ctx context.Context, conferenceID uint) ([]domain.Ticket, error)
}

type TicketHandler struct {
	svc     VisibleTicketLister
	confSvc ConferenceService
}

func NewTicketHandler(svc VisibleTicketLister, confSvc ConferenceService) *TicketHandler {
	return &TicketHandler{
		svc:     svc,
		confSvc: confSvc,
	}
}

// HandleListVisibleTickets godoc
// @Summary      List purchasable tickets
// @Description  Retrieves the tickets currently on sale for a conference
// @Tags         tickets
// @Produce      json
// @Param        shortTitle  path      string  true  "Conference short title"
// @Success      200         {array}   response.TicketResponse
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /conferences/{shortTitle}/tickets [get]
func (h *TicketHandler) HandleListVisibleTickets(ctx *gin.Context) {
	conference, respErr := getConferenceFromPath(ctx, h.confSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tickets, err := h.svc.GetVisibleTickets(ctx.Request.Context(), conference.ID)
	if err != nil {
		err = fmt.Errorf("HandleListVisibleTickets -> h.svc.GetVisibleTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewTicketsResponse(tickets))
}
