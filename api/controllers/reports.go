package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/teafarmpro/teafarm-backend/api/responses"
	"github.com/teafarmpro/teafarm-backend/api/validators"
	"github.com/teafarmpro/teafarm-backend/internal/reports"
	"github.com/teafarmpro/teafarm-backend/pkg/logger"
)

type reportRangeRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type employeeReportRequest struct {
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
}

func wantsPDF(r *http.Request) bool {
	return r.URL.Query().Get("format") == "pdf"
}

func ReportTotalProduction(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reportRangeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start, _ := time.Parse(validators.DateLayout, body.StartDate)
		end, _ := time.Parse(validators.DateLayout, body.EndDate)

		report, err := svc.TotalProduction(r.Context(), farmerID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// ReportEmployeePerformance reports one employee's weighings and income
// over an inclusive range. With ?format=pdf the result is rendered as a
// document instead of JSON.
func ReportEmployeePerformance(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body employeeReportRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start, _ := time.Parse(validators.DateLayout, body.StartDate)
		end, _ := time.Parse(validators.DateLayout, body.EndDate)
		employeeID, _ := uuid.Parse(body.EmployeeID)

		report, err := svc.EmployeePerformance(r.Context(), farmerID, employeeID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if wantsPDF(r) {
			payload, err := reports.RenderEmployeePDF(report)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WritePDF(w, "employee_performance.pdf", payload)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

func ReportExpenses(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reportRangeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start, _ := time.Parse(validators.DateLayout, body.StartDate)
		end, _ := time.Parse(validators.DateLayout, body.EndDate)

		report, err := svc.Expenses(r.Context(), farmerID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if wantsPDF(r) {
			payload, err := reports.RenderExpensesPDF(report)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WritePDF(w, "expense_report.pdf", payload)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// ReportCombined joins production income and expenses into one ledger
// view with net profit.
func ReportCombined(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reportRangeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start, _ := time.Parse(validators.DateLayout, body.StartDate)
		end, _ := time.Parse(validators.DateLayout, body.EndDate)

		report, err := svc.Combined(r.Context(), farmerID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if wantsPDF(r) {
			payload, err := reports.RenderCombinedPDF(report)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WritePDF(w, "farm_report.pdf", payload)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
