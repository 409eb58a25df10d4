package controllers

import (
	"net/http"

	"github.com/vkarpenko/shareit-go/api/middleware"
	"github.com/vkarpenko/shareit-go/api/responses"
	"github.com/vkarpenko/shareit-go/api/validators"
	"github.com/vkarpenko/shareit-go/internal/requests"
	"github.com/vkarpenko/shareit-go/pkg/logger"
)

type createRequestRequest struct {
	Description string `json:"description" validate:"required"`
}

func CreateRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestorID := middleware.UserIDFromContext(r.Context())

		var req createRequestRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), requestorID, requests.CreateRequestInput{Description: req.Description})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ListOwnRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestorID := middleware.UserIDFromContext(r.Context())

		dtos, err := svc.ListByRequestor(r.Context(), requestorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

func GetRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := pathID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetByID(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
