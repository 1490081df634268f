package controllers

import (
	"net/http"

	"github.com/teafarmpro/teafarm-backend/api/responses"
	"github.com/teafarmpro/teafarm-backend/api/validators"
	"github.com/teafarmpro/teafarm-backend/internal/labours"
	"github.com/teafarmpro/teafarm-backend/pkg/logger"
)

type createLabourRequest struct {
	Type        string  `json:"type" validate:"required,min=2,max=64"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Rate        float64 `json:"rate" validate:"gte=0"`
}

type updateLabourRequest struct {
	Type        *string  `json:"type" validate:"omitempty,min=2,max=64"`
	Description *string  `json:"description" validate:"omitempty,max=255"`
	Rate        *float64 `json:"rate" validate:"omitempty,gte=0"`
}

func LabourCreate(svc labours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createLabourRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		labour, err := svc.CreateType(r.Context(), farmerID, labours.CreateTypeInput{
			Type:        body.Type,
			Description: body.Description,
			Rate:        body.Rate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, labour)
	}
}

func LabourList(svc labours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		labourTypes, err := svc.ListTypes(r.Context(), farmerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, labourTypes)
	}
}

func LabourDetail(svc labours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		labourID, err := validators.URLParamUUID(r, "labourId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		labour, err := svc.GetType(r.Context(), farmerID, labourID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, labour)
	}
}

func LabourUpdate(svc labours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		labourID, err := validators.URLParamUUID(r, "labourId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateLabourRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		labour, err := svc.UpdateType(r.Context(), farmerID, labourID, labours.UpdateTypeInput{
			Type:        body.Type,
			Description: body.Description,
			Rate:        body.Rate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, labour)
	}
}

func LabourDelete(svc labours.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		labourID, err := validators.URLParamUUID(r, "labourId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteType(r.Context(), farmerID, labourID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
