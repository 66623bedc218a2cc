package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anandMohanan/staybase/internal/application/dto"
	"github.com/anandMohanan/staybase/pkg/auth"
)

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizationFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization")
		return
	}

	var req dto.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	req.OrganizationID = orgID

	resp, err := s.usecases.CreateCampaign.Execute(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizationFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization")
		return
	}

	campaigns, err := s.usecases.ListCampaigns.Execute(r.Context(), orgID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"campaigns": campaigns})
}

func (s *Server) handlePreviewAudience(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizationFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization")
		return
	}

	resp, err := s.usecases.PreviewAudience.Execute(r.Context(), dto.PreviewAudienceRequest{
		OrganizationID: orgID,
		CampaignID:     chi.URLParam(r, "campaignID"),
	})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
