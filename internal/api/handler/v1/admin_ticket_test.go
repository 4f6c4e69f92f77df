package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/confaro/confaro-api/internal/api/middleware"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/service"
)

type stubTicketManager struct {
	ticket domain.Ticket
}

func (s *stubTicketManager) CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	return ticket, nil
}

func (s *stubTicketManager) UpdateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	return ticket, nil
}

func (s *stubTicketManager) DeleteTicket(ctx context.Context, id uint) error {
	return nil
}

func (s *stubTicketManager) GetTicket(ctx context.Context, id uint) (domain.Ticket, error) {
	return s.ticket, nil
}

func (s *stubTicketManager) GetTickets(ctx context.Context, conferenceID uint) ([]domain.Ticket, error) {
	return []domain.Ticket{s.ticket}, nil
}

type stubTicketGiver struct {
	result service.GiveResult
	err    error
}

func (s *stubTicketGiver) Give(ctx context.Context, conference domain.Conference, ticket domain.Ticket, recipient domain.User) (service.GiveResult, error) {
	return s.result, s.err
}

type stubUserDirectory struct {
	users map[uint]domain.User
}

func (s *stubUserDirectory) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}

	return user, nil
}

func newGiveRouter(giver *stubTicketGiver) *gin.Engine {
	gin.SetMode(gin.TestMode)

	confSvc := &stubConferenceService{conference: domain.Conference{ID: 1, ShortTitle: "gophercon", Currency: "EUR"}}
	users := &stubUserDirectory{users: map[uint]domain.User{
		1: {ID: 1, Admin: true},
		7: {ID: 7},
	}}
	tickets := &stubTicketManager{ticket: domain.Ticket{ID: 3, ConferenceID: 1, Title: "Registration", RegistrationTicket: true}}
	handler := NewAdminTicketHandler(tickets, giver, nil, confSvc, users)

	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, uint(1))
	})
	router.POST("/admin/conferences/:shortTitle/tickets/:ticketID/give", handler.HandleGiveTicket)

	return router
}

func TestHandleGiveTicket_DuplicateRegistrationIsValidationFailure(t *testing.T) {
	giver := &stubTicketGiver{err: service.ErrDuplicateRegistrationTicket}
	router := newGiveRouter(giver)

	req := httptest.NewRequest(
		http.MethodPost,
		"/admin/conferences/gophercon/tickets/3/give",
		strings.NewReader(`{"user_id": 7}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), service.ErrDuplicateRegistrationTicket.Error())
}

func TestHandleGiveTicket_Succeeds(t *testing.T) {
	giver := &stubTicketGiver{result: service.GiveResult{
		Purchase:      domain.TicketPurchase{ID: 9, UserID: 7, TicketID: 3, Quantity: 1, Paid: true},
		RemovedUnpaid: 1,
		Registered:    true,
	}}
	router := newGiveRouter(giver)

	req := httptest.NewRequest(
		http.MethodPost,
		"/admin/conferences/gophercon/tickets/3/give",
		strings.NewReader(`{"user_id": 7}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "given to user 7")
}
