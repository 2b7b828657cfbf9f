package handlers

import (
	"net/http"

	"github.com/eventura-app/server/internal/domain/contact"
	"github.com/go-playground/validator/v10"
)

type ContactHandler struct {
	Base
	contact  *contact.Service
	validate *validator.Validate
}

func NewContactHandler(base Base, contactService *contact.Service) *ContactHandler {
	return &ContactHandler{
		Base:     base,
		contact:  contactService,
		validate: validator.New(),
	}
}

func (h *ContactHandler) Form(w http.ResponseWriter, r *http.Request) {
	data := h.data(r)
	data["form"] = contact.SubmitParams{}
	h.Renderer.Render(w, http.StatusOK, "contact/form", data)
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	form := contact.SubmitParams{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}

	if err := h.validate.Struct(form); err != nil {
		data := h.data(r)
		data["form"] = form
		data["formError"] = "All fields are required and the email must be valid."
		h.Renderer.Render(w, http.StatusUnprocessableEntity, "contact/form", data)
		return
	}

	if _, err := h.contact.Submit(r.Context(), form); err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	data := h.data(r)
	data["submitted"] = true
	h.Renderer.Render(w, http.StatusOK, "contact/form", data)
}
