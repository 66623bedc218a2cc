package rest

import (
	"encoding/json"
	"net/http"

	"github.com/anandMohanan/staybase/internal/application/dto"
	"github.com/anandMohanan/staybase/pkg/auth"
)

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizationFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization")
		return
	}

	resp, err := s.usecases.ListCustomers.Execute(r.Context(), dto.ListCustomersRequest{OrganizationID: orgID})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUploadCustomers(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizationFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization")
		return
	}

	var body struct {
		Customers []dto.CustomerRow `json:"customers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if len(body.Customers) == 0 {
		writeError(w, http.StatusBadRequest, "no customers provided")
		return
	}

	resp, err := s.usecases.UploadCustomers.Execute(r.Context(), dto.UploadCustomersRequest{
		OrganizationID: orgID,
		Rows:           body.Customers,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
