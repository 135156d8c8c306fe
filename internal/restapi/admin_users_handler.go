package restapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"aquadash.wasreb.org/internal/auth"
	"aquadash.wasreb.org/internal/models"
	"aquadash.wasreb.org/internal/utils"
)

func (api *RestAPI) adminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := api.Users.List(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	counts, err := api.Users.Counts(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(map[string]interface{}{
		"list":   users,
		"counts": counts,
	}))
}

// adminUpdateUserHandler changes a user's role and country assignment. Live
// sessions of the user pick the change up immediately.
func (api *RestAPI) adminUpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	username := utils.ExtractIDFromParams(r, "username")

	var req struct {
		Role    string  `json:"role"`
		Country *string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendValidationErrors(w, r, map[string]string{"body": "must be valid JSON"})
		return
	}
	if req.Role != auth.RoleAdmin && req.Role != auth.RoleCountry {
		api.sendValidationErrors(w, r, map[string]string{"role": "must be admin or country"})
		return
	}
	if req.Country != nil {
		if err := utils.ValidateName(*req.Country); err != nil {
			api.sendValidationErrors(w, r, map[string]string{"country": err.Error()})
			return
		}
	}

	err := api.Users.UpdateRole(r.Context(), username, req.Role, req.Country)
	if errors.Is(err, auth.ErrUserNotFound) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	user, err := api.Users.Get(r.Context(), username)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.Sessions.Refresh(user)
	api.sendResponse(w, r, models.NewOKResponse(map[string]interface{}{"user": user}))
}
