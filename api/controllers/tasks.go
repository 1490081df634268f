package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/teafarmpro/teafarm-backend/api/middleware"
	"github.com/teafarmpro/teafarm-backend/api/responses"
	"github.com/teafarmpro/teafarm-backend/api/validators"
	"github.com/teafarmpro/teafarm-backend/internal/tasks"
	"github.com/teafarmpro/teafarm-backend/pkg/enums"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"github.com/teafarmpro/teafarm-backend/pkg/logger"
)

type assignTaskRequest struct {
	LabourID   string  `json:"labour_id" validate:"required,uuid"`
	EmployeeID string  `json:"employee_id" validate:"required,uuid"`
	DueDate    *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type updateTaskRequest struct {
	LabourID   *string `json:"labour_id" validate:"omitempty,uuid"`
	EmployeeID *string `json:"employee_id" validate:"omitempty,uuid"`
	DueDate    *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func TaskAssign(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body assignTaskRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		labourID, _ := uuid.Parse(body.LabourID)
		employeeID, _ := uuid.Parse(body.EmployeeID)
		input := tasks.AssignInput{
			LabourID:   labourID,
			EmployeeID: employeeID,
		}
		if body.DueDate != nil {
			due, _ := time.Parse(validators.DateLayout, *body.DueDate)
			input.DueDate = &due
		}

		task, err := svc.Assign(r.Context(), farmerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, task)
	}
}

// TaskList shows the whole board to farmers; employee principals only
// ever see their own assignments.
func TaskList(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if !principal.IsFarmer() {
			rows, err := svc.ListByEmployee(r.Context(), principal.FarmerID, principal.ID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, rows)
			return
		}

		if raw := r.URL.Query().Get("employee_id"); raw != "" {
			employeeID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "employee_id must be a valid UUID"))
				return
			}
			rows, err := svc.ListByEmployee(r.Context(), principal.FarmerID, employeeID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, rows)
			return
		}

		rows, err := svc.List(r.Context(), principal.FarmerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// TaskDetail loads one task. Employee principals may only read their own
// assignments; a coworker's task reads as missing.
func TaskDetail(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		taskID, err := validators.URLParamUUID(r, "taskId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		task, err := svc.Get(r.Context(), principal.FarmerID, taskID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !principal.IsFarmer() && task.EmployeeID != principal.ID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "task not found"))
			return
		}

		responses.WriteSuccess(w, task)
	}
}

// TaskUpdateStatus advances a task along pending -> in_progress ->
// completed. Regressions are rejected by the service.
func TaskUpdateStatus(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		taskID, err := validators.URLParamUUID(r, "taskId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateTaskStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseTaskStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid task status"))
			return
		}

		task, err := svc.UpdateStatus(r.Context(), farmerID, taskID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, task)
	}
}

func TaskUpdate(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		taskID, err := validators.URLParamUUID(r, "taskId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateTaskRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input tasks.UpdateInput
		if body.LabourID != nil {
			labourID, _ := uuid.Parse(*body.LabourID)
			input.LabourID = &labourID
		}
		if body.EmployeeID != nil {
			employeeID, _ := uuid.Parse(*body.EmployeeID)
			input.EmployeeID = &employeeID
		}
		if body.DueDate != nil {
			due, _ := time.Parse(validators.DateLayout, *body.DueDate)
			input.DueDate = &due
		}

		task, err := svc.Update(r.Context(), farmerID, taskID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, task)
	}
}

func TaskDelete(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		taskID, err := validators.URLParamUUID(r, "taskId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), farmerID, taskID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
