package response

import (
	"github.com/confaro/confaro-api/internal/domain"
)

type TicketResponse struct {
	ID                 uint   `json:"id"`
	ConferenceID       uint   `json:"conference_id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Price              string `json:"price"`
	PriceCurrency      string `json:"price_currency"`
	RegistrationTicket bool   `json:"registration_ticket"`
	Visible            bool   `json:"visible"`
}

func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                 t.ID,
		ConferenceID:       t.ConferenceID,
		Title:              t.Title,
		Description:        t.Description,
		Price:              t.Price.String(),
		PriceCurrency:      string(t.PriceCurrency),
		RegistrationTicket: t.RegistrationTicket,
		Visible:            t.Visible,
	}
}

func NewTicketsResponse(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}

	return out
}

type GiveTicketResponse struct {
	Message       string           `json:"message"`
	Purchase      PurchaseResponse `json:"purchase"`
	RemovedUnpaid int              `json:"removed_unpaid"`
	Registered    bool             `json:"registered"`
}
