package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/api/middleware"
	"github.com/teafarmpro/teafarm-backend/api/responses"
	"github.com/teafarmpro/teafarm-backend/api/validators"
	"github.com/teafarmpro/teafarm-backend/internal/production"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"github.com/teafarmpro/teafarm-backend/pkg/logger"
)

type createProductionRequest struct {
	EmployeeID string   `json:"employee_id" validate:"required,uuid"`
	Date       string   `json:"date" validate:"required,datetime=2006-01-02"`
	Weight     float64  `json:"weight" validate:"gt=0"`
	Rate       *float64 `json:"rate" validate:"omitempty,gte=0"`
}

type updateProductionRequest struct {
	Date   *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Weight *float64 `json:"weight" validate:"omitempty,gt=0"`
	Rate   *float64 `json:"rate" validate:"omitempty,gte=0"`
}

// rejectFutureDate guards the ledger against weighings dated after the
// server clock. Services never re-derive "today"; the cutoff is decided
// here.
func rejectFutureDate(date time.Time) error {
	today := production.DateOnly(time.Now().UTC())
	if date.After(today) {
		return pkgerrors.New(pkgerrors.CodeValidation, "production date cannot be in the future")
	}
	return nil
}

func ProductionCreate(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createProductionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, _ := time.Parse(validators.DateLayout, body.Date)
		if err := rejectFutureDate(date); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employeeID, _ := uuid.Parse(body.EmployeeID)

		record, err := svc.Record(r.Context(), farmerID, production.RecordInput{
			EmployeeID: employeeID,
			Date:       date,
			Weight:     body.Weight,
			Rate:       body.Rate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// ProductionList returns the records for one employee. Employee
// principals may only read their own.
func ProductionList(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		employeeID := principal.ID
		if principal.IsFarmer() {
			raw := r.URL.Query().Get("employee_id")
			parsed, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "employee_id query parameter required"))
				return
			}
			employeeID = parsed
		}

		records, err := svc.ListByEmployee(r.Context(), principal.FarmerID, employeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// ProductionDetail loads one record. Employee principals may only read
// their own rows; a coworker's record is indistinguishable from a
// missing one.
func ProductionDetail(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		recordID, err := validators.URLParamUUID(r, "productionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), principal.FarmerID, recordID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !principal.IsFarmer() && record.EmployeeID != principal.ID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "production record not found"))
			return
		}

		responses.WriteSuccess(w, record)
	}
}

func ProductionUpdate(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordID, err := validators.URLParamUUID(r, "productionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := production.UpdateInput{Weight: body.Weight, Rate: body.Rate}
		if body.Date != nil {
			date, _ := time.Parse(validators.DateLayout, *body.Date)
			if err := rejectFutureDate(date); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Date = &date
		}

		record, err := svc.Update(r.Context(), farmerID, recordID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

func ProductionDelete(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordID, err := validators.URLParamUUID(r, "productionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), farmerID, recordID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ProductionTotal sums weights over an inclusive date range.
func ProductionTotal(svc production.Service, logg *logger.Logger) http.HandlerFunc {
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

		total, err := svc.TotalWeight(r.Context(), farmerID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"start_date":   start.Format(validators.DateLayout),
			"end_date":     end.Format(validators.DateLayout),
			"total_weight": total,
		})
	}
}
