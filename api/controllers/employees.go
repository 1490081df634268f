package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/api/middleware"
	"github.com/teafarmpro/teafarm-backend/api/responses"
	"github.com/teafarmpro/teafarm-backend/api/validators"
	"github.com/teafarmpro/teafarm-backend/internal/identity"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"github.com/teafarmpro/teafarm-backend/pkg/logger"
)

type createEmployeeRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=128"`
	Phone     string  `json:"phone" validate:"required,min=7,max=20"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  string  `json:"password" validate:"required,min=8,max=128"`
	JobTypeID string  `json:"job_type_id" validate:"required,uuid"`
}

type updateEmployeeRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=128"`
	Phone     *string `json:"phone" validate:"omitempty,min=7,max=20"`
	Email     *string `json:"email" validate:"omitempty,email"`
	JobTypeID *string `json:"job_type_id" validate:"omitempty,uuid"`
	IsActive  *bool   `json:"is_active"`
}

func tenantFromRequest(r *http.Request) (uuid.UUID, error) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return principal.FarmerID, nil
}

func EmployeeCreate(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createEmployeeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		jobTypeID, _ := uuid.Parse(body.JobTypeID)

		employee, err := svc.RegisterEmployee(r.Context(), farmerID, identity.RegisterEmployeeInput{
			Name:      body.Name,
			Phone:     body.Phone,
			Email:     body.Email,
			Password:  body.Password,
			JobTypeID: jobTypeID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, employee)
	}
}

func EmployeeList(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employees, err := svc.ListEmployees(r.Context(), farmerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, employees)
	}
}

func EmployeeDetail(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employeeID, err := validators.URLParamUUID(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employee, err := svc.GetEmployee(r.Context(), farmerID, employeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, employee)
	}
}

func EmployeeUpdate(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employeeID, err := validators.URLParamUUID(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateEmployeeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := identity.UpdateEmployeeInput{
			Name:     body.Name,
			Phone:    body.Phone,
			Email:    body.Email,
			IsActive: body.IsActive,
		}
		if body.JobTypeID != nil {
			jobTypeID, _ := uuid.Parse(*body.JobTypeID)
			input.JobTypeID = &jobTypeID
		}

		employee, err := svc.UpdateEmployee(r.Context(), farmerID, employeeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, employee)
	}
}

func EmployeeDelete(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employeeID, err := validators.URLParamUUID(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteEmployee(r.Context(), farmerID, employeeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
