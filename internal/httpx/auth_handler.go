package httpx

import (
	"errors"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/identity"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Identity *identity.Service
	Sessions *Sessions
	Log      *zap.Logger
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/profile", h.profile)
		r.Put("/profile", h.updateProfile)
	})
}

type userDTO struct {
	ID       int64            `json:"id"`
	Username string           `json:"username"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Address  identity.Address `json:"address"`
	Admin    bool             `json:"admin"`
}

type userMessageDTO struct {
	User    userDTO `json:"user"`
	Message string  `json:"message"`
}

func toUser(u identity.User) userDTO {
	return userDTO{ID: u.ID, Username: u.Username, Name: u.Name, Email: u.Email, Address: u.Address, Admin: u.Admin}
}

func addressForm(r *http.Request) identity.Address {
	return identity.Address{
		Street:       form(r, "street"),
		HouseNumber:  form(r, "house_number"),
		Neighborhood: form(r, "neighborhood"),
		City:         form(r, "city"),
	}
}

// register creates the account and logs it in.
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	u, err := h.Identity.Register(r.Context(), identity.RegisterInput{
		Username:        form(r, "username"),
		Name:            form(r, "name"),
		Email:           form(r, "email"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
		Address:         addressForm(r),
	})
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	if err := h.Sessions.Login(w, r, u); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, userMessageDTO{User: toUser(u), Message: "Cuenta creada correctamente."})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	u, err := h.Identity.Authenticate(r.Context(), form(r, "username"), r.PostFormValue("password"))
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Credenciales incorrectas.")
		return
	case errors.Is(err, identity.ErrInactive):
		writeError(w, http.StatusForbidden, "Tu cuenta está desactivada.")
		return
	case err != nil:
		fail(w, r, h.Log, err)
		return
	}
	if err := h.Sessions.Login(w, r, u); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	if next, ok := safeNext(r.FormValue("next")); ok {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, userMessageDTO{User: toUser(u), Message: "Sesión iniciada."})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(w, r); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Sesión cerrada."})
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUser(*CurrentUser(r.Context())))
}

func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Identity.UpdateProfile(r.Context(), CurrentUser(r.Context()).ID, identity.ProfileInput{
		Name:    form(r, "name"),
		Email:   form(r, "email"),
		Address: addressForm(r),
	})
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, userMessageDTO{User: toUser(u), Message: "Perfil actualizado."})
}
