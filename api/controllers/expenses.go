package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/api/responses"
	"github.com/teafarmpro/teafarm-backend/api/validators"
	"github.com/teafarmpro/teafarm-backend/internal/expenses"
	"github.com/teafarmpro/teafarm-backend/pkg/logger"
)

type logExpenseRequest struct {
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
}

type updateExpenseRequest struct {
	CategoryID  *string  `json:"category_id" validate:"omitempty,uuid"`
	Description *string  `json:"description" validate:"omitempty,max=255"`
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0"`
	Date        *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func ExpenseCreate(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body logExpenseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, _ := uuid.Parse(body.CategoryID)
		date, _ := time.Parse(validators.DateLayout, body.Date)

		expense, err := svc.Log(r.Context(), farmerID, expenses.LogInput{
			CategoryID:  categoryID,
			Description: body.Description,
			Amount:      body.Amount,
			Date:        date,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, expense)
	}
}

// ExpenseList returns expenses in an inclusive date range together with
// their total.
func ExpenseList(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
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

		expenseRows, err := svc.ListInRange(r.Context(), farmerID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		total, err := svc.TotalInRange(r.Context(), farmerID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"expenses": expenseRows,
			"total":    total,
		})
	}
}

func ExpenseDetail(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expenseID, err := validators.URLParamUUID(r, "expenseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expense, err := svc.Get(r.Context(), farmerID, expenseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, expense)
	}
}

func ExpenseUpdate(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expenseID, err := validators.URLParamUUID(r, "expenseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateExpenseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := expenses.UpdateInput{
			Description: body.Description,
			Amount:      body.Amount,
		}
		if body.CategoryID != nil {
			categoryID, _ := uuid.Parse(*body.CategoryID)
			input.CategoryID = &categoryID
		}
		if body.Date != nil {
			date, _ := time.Parse(validators.DateLayout, *body.Date)
			input.Date = &date
		}

		expense, err := svc.Update(r.Context(), farmerID, expenseID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, expense)
	}
}

func ExpenseDelete(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		expenseID, err := validators.URLParamUUID(r, "expenseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), farmerID, expenseID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
