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

type ConversionManager interface {
	AddConversion(ctx context.Context, conversion domain.CurrencyConversion) (domain.CurrencyConversion, error)
	GetConversions(ctx context.Context, conferenceID uint) ([]domain.CurrencyConversion, error)
	RemoveConversion(ctx context.Context, id uint) error
}

type AdminConversionHandler struct {
	svc     ConversionManager
	confSvc ConferenceService
	uSvc    UserService
}

func NewAdminConversionHandler(svc ConversionManager, confSvc ConferenceService, uSvc UserService) *AdminConversionHandler {
	return &AdminConversionHandler{
		svc:     svc,
		confSvc: confSvc,
		uSvc:    uSvc,
	}
}

func (h *AdminConversionHandler) requireAdmin(ctx *gin.Context) (domain.Conference, *response.Err) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return domain.Conference{}, respErr
	}

	if !user.Admin {
		return domain.Conference{}, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID))
	}

	return getConferenceFromPath(ctx, h.confSvc)
}

// HandleListConversions godoc
// @Summary      List conversion rates
// @Tags         admin-conversions
// @Produce      json
// @Param        shortTitle  path      string  true  "Conference short title"
// @Success      200         {array}   response.ConversionResponse
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/conferences/{shortTitle}/conversions [get]
// @Security BearerAuth
func (h *AdminConversionHandler) HandleListConversions(ctx *gin.Context) {
	conference, respErr := h.requireAdmin(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conversions, err := h.svc.GetConversions(ctx.Request.Context(), conference.ID)
	if err != nil {
		err = fmt.Errorf("HandleListConversions -> h.svc.GetConversions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewConversionsResponse(conversions))
}

// HandleCreateConversion godoc
// @Summary      Add a conversion rate
// @Description  Stores a directional exchange rate for pricing tickets in another currency
// @Tags         admin-conversions
// @Accept       json
// @Produce      json
// @Param        shortTitle  path      string                           true  "Conference short title"
// @Param        input       body      request.CreateConversionRequest  true  "Rate details"
// @Success      201         {object}  response.ConversionResponse
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/conferences/{shortTitle}/conversions [post]
// @Security BearerAuth
func (h *AdminConversionHandler) HandleCreateConversion(ctx *gin.Context) {
	conference, respErr := h.requireAdmin(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateConversionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.AddConversion(ctx.Request.Context(), domain.CurrencyConversion{
		ConferenceID: conference.ID,
		FromCurrency: currency.Code(input.FromCurrency),
		ToCurrency:   currency.Code(input.ToCurrency),
		Rate:         input.RateDecimal(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCurrency),
			errors.Is(err, service.ErrInvalidRate),
			errors.Is(err, service.ErrConversionExists):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("HandleCreateConversion -> h.svc.AddConversion -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.NewConversionResponse(&created))
}

// HandleDeleteConversion godoc
// @Summary      Delete a conversion rate
// @Tags         admin-conversions
// @Produce      json
// @Param        shortTitle    path      string  true  "Conference short title"
// @Param        conversionID  path      int     true  "Conversion ID"
// @Success      204           "No Content"
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /admin/conferences/{shortTitle}/conversions/{conversionID} [delete]
// @Security BearerAuth
func (h *AdminConversionHandler) HandleDeleteConversion(ctx *gin.Context) {
	if _, respErr := h.requireAdmin(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conversionID, err := strconv.ParseUint(ctx.Param("conversionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid conversion ID -> %w", err)))
		return
	}

	if err = h.svc.RemoveConversion(ctx.Request.Context(), uint(conversionID)); err != nil {
		if errors.Is(err, service.ErrConversionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("conversion", "ID", conversionID))
			return
		}

		err = fmt.Errorf("HandleDeleteConversion -> h.svc.RemoveConversion -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
