package restapi

import (
	"context"
	"net/http"

	"aquadash.wasreb.org/internal/auth"
	"aquadash.wasreb.org/internal/kpi"
	"aquadash.wasreb.org/internal/utils"
)

type contextKey string

const sessionContextKey = contextKey("session")

type handlerFunc func(w http.ResponseWriter, r *http.Request)

// requireSession resolves the session cookie and rejects the request with a
// 401 envelope when it is missing, unknown or expired.
func (api *RestAPI) requireSession(finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := api.sessionFromRequest(r)
		if !ok {
			api.sendUnauthorized(w, r, "")
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		finalHandler(w, r.WithContext(ctx))
	})
}

// requireAdmin additionally rejects non-admin sessions with a 403.
func (api *RestAPI) requireAdmin(finalHandler handlerFunc) http.Handler {
	return api.requireSession(func(w http.ResponseWriter, r *http.Request) {
		if session(r).User.Role != auth.RoleAdmin {
			api.sendForbidden(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func (api *RestAPI) sessionFromRequest(r *http.Request) (auth.Session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return auth.Session{}, false
	}
	return api.Sessions.Lookup(cookie.Value)
}

// session returns the session stored by requireSession. Calling it outside
// a wrapped handler is a programming error.
func session(r *http.Request) auth.Session {
	return r.Context().Value(sessionContextKey).(auth.Session)
}

// filterFromRequest builds the KPI filter from the common query parameters.
// Country-role users are pinned to their assigned country regardless of the
// requested countries.
func (api *RestAPI) filterFromRequest(r *http.Request) (kpi.Filter, map[string]string) {
	q := r.URL.Query()
	fieldErrors := map[string]string{}

	f := kpi.Filter{
		Countries: utils.SplitList(q.Get("countries")),
		Zones:     utils.SplitList(q.Get("zones")),
	}
	for _, c := range f.Countries {
		if err := utils.ValidateName(c); err != nil {
			fieldErrors["countries"] = err.Error()
			break
		}
	}
	for _, z := range f.Zones {
		if err := utils.ValidateName(z); err != nil {
			fieldErrors["zones"] = err.Error()
			break
		}
	}

	var err error
	if f.StartYear, err = utils.ParseYear(q.Get("startYear")); err != nil {
		fieldErrors["startYear"] = err.Error()
	}
	if f.EndYear, err = utils.ParseYear(q.Get("endYear")); err != nil {
		fieldErrors["endYear"] = err.Error()
	}
	if f.StartYear != 0 && f.EndYear != 0 && f.EndYear < f.StartYear {
		fieldErrors["endYear"] = "must not precede startYear"
	}
	if len(fieldErrors) > 0 {
		return kpi.Filter{}, fieldErrors
	}

	s := session(r)
	if s.User.Role == auth.RoleCountry && s.User.Country != nil {
		f = f.Restrict(*s.User.Country)
	}
	return f, nil
}
