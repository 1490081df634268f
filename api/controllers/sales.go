package controllers

import (
	"net/http"
	"time"

	"github.com/teafarmpro/teafarm-backend/api/responses"
	"github.com/teafarmpro/teafarm-backend/api/validators"
	"github.com/teafarmpro/teafarm-backend/internal/sales"
	"github.com/teafarmpro/teafarm-backend/pkg/logger"
)

type recordSaleRequest struct {
	Factory        *string `json:"factory" validate:"omitempty,max=128"`
	TransactionRef *string `json:"transaction_ref" validate:"omitempty,max=128"`
	PluckingDate   string  `json:"plucking_date" validate:"required,datetime=2006-01-02"`
	GrossWeight    float64 `json:"gross_weight" validate:"gt=0"`
	TareWeight     float64 `json:"tare_weight" validate:"gte=0"`
}

type updateSaleRequest struct {
	Factory        *string  `json:"factory" validate:"omitempty,max=128"`
	TransactionRef *string  `json:"transaction_ref" validate:"omitempty,max=128"`
	PluckingDate   *string  `json:"plucking_date" validate:"omitempty,datetime=2006-01-02"`
	GrossWeight    *float64 `json:"gross_weight" validate:"omitempty,gt=0"`
	TareWeight     *float64 `json:"tare_weight" validate:"omitempty,gte=0"`
}

// SaleRecord logs a factory delivery. The net weight is derived from
// gross minus tare, never taken from the client.
func SaleRecord(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body recordSaleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pluckingDate, _ := time.Parse(validators.DateLayout, body.PluckingDate)
		sale, err := svc.Record(r.Context(), farmerID, sales.RecordInput{
			Factory:        body.Factory,
			TransactionRef: body.TransactionRef,
			PluckingDate:   pluckingDate,
			GrossWeight:    body.GrossWeight,
			TareWeight:     body.TareWeight,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

func SaleList(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start, err := validators.ParseQueryDate(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListInRange(r.Context(), farmerID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

func SaleDetail(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saleID, err := validators.URLParamUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.Get(r.Context(), farmerID, saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sale)
	}
}

func SaleUpdate(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saleID, err := validators.URLParamUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateSaleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := sales.UpdateInput{
			Factory:        body.Factory,
			TransactionRef: body.TransactionRef,
			GrossWeight:    body.GrossWeight,
			TareWeight:     body.TareWeight,
		}
		if body.PluckingDate != nil {
			pluckingDate, _ := time.Parse(validators.DateLayout, *body.PluckingDate)
			input.PluckingDate = &pluckingDate
		}

		sale, err := svc.Update(r.Context(), farmerID, saleID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sale)
	}
}

func SaleDelete(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saleID, err := validators.URLParamUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), farmerID, saleID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
