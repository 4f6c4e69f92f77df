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
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/service"
)

type PaymentService interface {
	Start(ctx context.Context, conference domain.Conference, user domain.User) (domain.Payment, error)
	Confirm(ctx context.Context, conference domain.Conference, paymentID uint, reference string) (int, error)
}

type PaymentHandler struct {
	svc     PaymentService
	confSvc ConferenceService
	uSvc    UserService
}

func NewPaymentHandler(svc PaymentService, confSvc ConferenceService, uSvc UserService) *PaymentHandler {
	return &PaymentHandler{
		svc:     svc,
		confSvc: confSvc,
		uSvc:    uSvc,
	}
}

// HandleStartPayment godoc
// @Summary      Start a payment
// @Description  Opens an unprocessed payment covering the caller's unpaid purchases
// @Tags         payments
// @Produce      json
// @Param        shortTitle  path      string  true  "Conference short title"
// @Success      201         {object}  response.PaymentResponse
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /conferences/{shortTitle}/payments [post]
// @Security BearerAuth
func (h *PaymentHandler) HandleStartPayment(ctx *gin.Context) {
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

	payment, err := h.svc.Start(ctx.Request.Context(), conference, user)
	if err != nil {
		if errors.Is(err, service.ErrNothingToPay) || errors.Is(err, service.ErrMixedCurrencies) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleStartPayment -> h.svc.Start -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewPaymentResponse(&payment))
}

// HandleConfirmPayment godoc
// @Summary      Confirm a payment
// @Description  Marks a payment as succeeded and fulfills the payer's unpaid purchases
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        shortTitle  path      string                         true  "Conference short title"
// @Param        paymentID   path      int                            true  "Payment ID"
// @Param        input       body      request.ConfirmPaymentRequest  true  "Gateway reference"
// @Success      200         {object}  response.ConfirmPaymentResponse
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /conferences/{shortTitle}/payments/{paymentID}/confirm [post]
// @Security BearerAuth
func (h *PaymentHandler) HandleConfirmPayment(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conference, respErr := getConferenceFromPath(ctx, h.confSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	paymentID, err := strconv.ParseUint(ctx.Param("paymentID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid payment ID -> %w", err)))
		return
	}

	var input request.ConfirmPaymentRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	fulfilled, err := h.svc.Confirm(ctx.Request.Context(), conference, uint(paymentID), input.Reference)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("payment", "ID", paymentID))
			return
		}
		if errors.Is(err, service.ErrPaymentConferenceMismatch) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleConfirmPayment -> h.svc.Confirm -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ConfirmPaymentResponse{
		PaymentID: uint(paymentID),
		Status:    string(domain.PaymentSucceeded),
		Fulfilled: fulfilled,
	})
}
