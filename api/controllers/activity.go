package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/krow6750/gearshare-backend/api/responses"
	"github.com/krow6750/gearshare-backend/api/validators"
	"github.com/krow6750/gearshare-backend/internal/activity"
	"github.com/krow6750/gearshare-backend/pkg/logger"
	"github.com/krow6750/gearshare-backend/pkg/pagination"
)

// ActivityService lists audit-trail entries.
type ActivityService interface {
	Recent(ctx context.Context, params pagination.Params) (activity.Page, error)
}

func ActivityList(svc ActivityService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.Recent(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, page.Entries, page.NextCursor)
	}
}
