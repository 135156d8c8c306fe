package restapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"aquadash.wasreb.org/internal/auth"
	"aquadash.wasreb.org/internal/models"
	"aquadash.wasreb.org/internal/utils"
)

func (api *RestAPI) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendValidationErrors(w, r, map[string]string{"body": "must be valid JSON"})
		return
	}

	if err := api.Sessions.CheckLockout(req.Username); err != nil {
		api.sendUnauthorized(w, r, err.Error())
		return
	}

	user, err := api.Users.Verify(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Sessions.RecordFailure(req.Username)
		api.sendUnauthorized(w, r, err.Error())
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	session := api.Sessions.Start(user)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	api.sendResponse(w, r, models.NewOKResponse(map[string]interface{}{"user": user}))
}

func (api *RestAPI) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		api.Sessions.End(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	api.sendResponse(w, r, models.NewOKResponse(struct{}{}))
}

// registerHandler creates a country-role account with no assigned country.
// An administrator assigns the country afterwards.
func (api *RestAPI) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendValidationErrors(w, r, map[string]string{"body": "must be valid JSON"})
		return
	}

	fieldErrors := map[string]string{}
	if err := utils.ValidateUsername(req.Username); err != nil {
		fieldErrors["username"] = err.Error()
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		fieldErrors["email"] = err.Error()
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		fieldErrors["password"] = err.Error()
	}
	if len(fieldErrors) > 0 {
		api.sendValidationErrors(w, r, fieldErrors)
		return
	}

	err := api.Users.Create(r.Context(), req.Username, req.Name, req.Email, req.Password, auth.RoleCountry, nil)
	if errors.Is(err, auth.ErrUserExists) {
		api.sendValidationErrors(w, r, map[string]string{"username": err.Error()})
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendEnvelope(w, r, http.StatusCreated,
		map[string]interface{}{"username": req.Username}, "account created")
}

func (api *RestAPI) profileHandler(w http.ResponseWriter, r *http.Request) {
	user, err := api.Users.Get(r.Context(), session(r).User.Username)
	if errors.Is(err, auth.ErrUserNotFound) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(map[string]interface{}{"user": user}))
}

func (api *RestAPI) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendValidationErrors(w, r, map[string]string{"body": "must be valid JSON"})
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		api.sendValidationErrors(w, r, map[string]string{"email": err.Error()})
		return
	}

	username := session(r).User.Username
	if err := api.Users.UpdateProfile(r.Context(), username, req.Name, req.Email); err != nil {
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

func (api *RestAPI) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Current string `json:"current"`
		New     string `json:"new"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendValidationErrors(w, r, map[string]string{"body": "must be valid JSON"})
		return
	}
	if err := utils.ValidatePassword(req.New); err != nil {
		api.sendValidationErrors(w, r, map[string]string{"new": err.Error()})
		return
	}

	err := api.Users.UpdatePassword(r.Context(), session(r).User.Username, req.Current, req.New)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.sendValidationErrors(w, r, map[string]string{"current": "current password is incorrect"})
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(struct{}{}))
}
