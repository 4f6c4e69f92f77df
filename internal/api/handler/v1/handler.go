package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/confaro/confaro-api/internal/api/handler/v1/response"
	"github.com/confaro/confaro-api/internal/api/middleware"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type ConferenceService interface {
	GetConference(ctx context.Context, shortTitle string) (domain.Conference, error)
}

func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	rawID, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized(errors.New("no authenticated user in request context"))
	}

	userID, ok := rawID.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errors.New("malformed user ID in request context"))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrNotFound("user", "ID", userID)
		}

		err = fmt.Errorf("getUserFromContext -> svc.GetUser -> %w", err)
		return domain.User{}, response.ErrInternalServerError(err)
	}

	return user, nil
}

func getConferenceFromPath(ctx *gin.Context, svc ConferenceService) (domain.Conference, *response.Err) {
	shortTitle := ctx.Param("shortTitle")
	if shortTitle == "" {
		return domain.Conference{}, response.ErrBadRequest(errors.New("missing conference short title"))
	}

	conference, err := svc.GetConference(ctx.Request.Context(), shortTitle)
	if err != nil {
		if errors.Is(err, service.ErrConferenceNotFound) {
			return domain.Conference{}, response.ErrNotFound("conference", "shortTitle", shortTitle)
		}

		err = fmt.Errorf("getConferenceFromPath -> svc.GetConference -> %w", err)
		return domain.Conference{}, response.ErrInternalServerError(err)
	}

	return conference, nil
}
