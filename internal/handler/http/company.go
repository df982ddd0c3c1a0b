package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/handler/http/response"
)

type CompanyHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetMy(w http.ResponseWriter, r *http.Request)
}

type companyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &companyHandlerImpl{companyService: companyService}
}

// Create registers a tenant. Admin only.
func (c *companyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req company.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := c.companyService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Company created successfully", created)
}

// GetMy returns the company the caller's token is bound to.
func (c *companyHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	found, err := c.companyService.GetByID(r.Context(), principalFromContext(r).CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}
