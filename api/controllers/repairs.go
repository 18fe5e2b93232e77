package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krow6750/gearshare-backend/api/middleware"
	"github.com/krow6750/gearshare-backend/api/responses"
	"github.com/krow6750/gearshare-backend/api/validators"
	"github.com/krow6750/gearshare-backend/internal/activity"
	"github.com/krow6750/gearshare-backend/internal/records"
	"github.com/krow6750/gearshare-backend/internal/repairs"
	"github.com/krow6750/gearshare-backend/pkg/logger"
)

// RepairsService is the repair ticket surface the controllers call.
type RepairsService interface {
	List(ctx context.Context) ([]records.RepairTicket, error)
	Get(ctx context.Context, id string) (records.RepairTicket, error)
	Create(ctx context.Context, input repairs.TicketInput) (records.RepairTicket, error)
	Update(ctx context.Context, id string, input repairs.TicketInput) (records.RepairTicket, error)
	Delete(ctx context.Context, id string) error
}

// TemplatesService renders customer-notification templates.
type TemplatesService interface {
	List(ctx context.Context) ([]repairs.Template, error)
	RenderForTicket(ctx context.Context, templateID string, ticket records.RepairTicket) (repairs.Template, error)
}

// ActivityRecorder appends audit entries for mutations.
type ActivityRecorder interface {
	Record(ctx context.Context, entry activity.Entry)
}

func RepairsList(svc RepairsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tickets, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tickets)
	}
}

func RepairsGet(svc RepairsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticket, err := svc.Get(r.Context(), chi.URLParam(r, "ticketId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ticket)
	}
}

func RepairsCreate(svc RepairsService, recorder ActivityRecorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input repairs.TicketInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordMutation(r.Context(), recorder, "repair.create", ticket.ID)
		responses.WriteSuccessStatus(w, http.StatusCreated, ticket)
	}
}

func RepairsUpdate(svc RepairsService, recorder ActivityRecorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input repairs.TicketInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := chi.URLParam(r, "ticketId")
		ticket, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordMutation(r.Context(), recorder, "repair.update", ticket.ID)
		responses.WriteSuccess(w, ticket)
	}
}

func RepairsDelete(svc RepairsService, recorder ActivityRecorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "ticketId")
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordMutation(r.Context(), recorder, "repair.delete", id)
		responses.WriteSuccess(w, map[string]string{"deleted": id})
	}
}

func TemplatesList(svc TemplatesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templates, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, templates)
	}
}

// TemplateRender previews a template filled from one ticket's data.
func TemplateRender(templates TemplatesService, tickets RepairsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticket, err := tickets.Get(r.Context(), chi.URLParam(r, "ticketId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rendered, err := templates.RenderForTicket(r.Context(), chi.URLParam(r, "templateId"), ticket)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rendered)
	}
}

func recordMutation(ctx context.Context, recorder ActivityRecorder, action, ticketID string) {
	if recorder == nil {
		return
	}
	recorder.Record(ctx, activity.Entry{
		Actor:      middleware.ActorEmailFromContext(ctx),
		Action:     action,
		EntityType: "repair_ticket",
		EntityID:   ticketID,
	})
}
