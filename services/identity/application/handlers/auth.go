package handlers

import (
	"net/http"

	"github.com/ghuser/storefront/pkg/auth"
	"github.com/ghuser/storefront/pkg/errhttp"
	"github.com/ghuser/storefront/pkg/httpx"
	pkgvalidator "github.com/ghuser/storefront/pkg/validator"
	appsvcs "github.com/ghuser/storefront/services/identity/application/services"
)

// Register creates a customer account and opens a session for it.
//
//	@Summary		Register account
//	@Description	Creates a customer account with its profile and logs the caller in.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Account fields"
//	@Success		201		{object}	UserResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/auth/register [post]
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[RegisterRequest](w, r)
	if !ok {
		return
	}

	user, err := h.svc.Identity.Register(r.Context(), appsvcs.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	if err := auth.IssueSession(w, r, h.store, user.Actor()); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toUserResponse(user))
}

// Login verifies credentials and opens a session.
//
//	@Summary		Log in
//	@Description	Verifies username and password and issues a session cookie.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/auth/login [post]
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[LoginRequest](w, r)
	if !ok {
		return
	}

	user, err := h.svc.Identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	if err := auth.IssueSession(w, r, h.store, user.Actor()); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

// Logout clears the caller's session.
//
//	@Summary		Log out
//	@Description	Expires the session cookie. Safe to call without a session.
//	@Tags			auth
//	@Success		204
//	@Router			/auth/logout [post]
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := auth.ClearSession(w, r, h.store); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the account behind the current session.
//
//	@Summary		Current account
//	@Description	Returns the account of the logged in caller.
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/auth/me [get]
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromCtx(r.Context())
	if err := auth.Authorize(actor, auth.IsAuthenticated); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	user, err := h.svc.Identity.GetByID(r.Context(), actor.UserID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}
