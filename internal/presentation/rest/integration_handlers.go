package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/anandMohanan/staybase/internal/application/dto"
	"github.com/anandMohanan/staybase/internal/application/usecase"
	"github.com/anandMohanan/staybase/pkg/auth"
)

// maxWebhookBody caps inbound webhook payloads at 1 MiB.
const maxWebhookBody = 1 << 20

func (s *Server) handleShopifyAuth(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.OrganizationFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "missing organization")
		return
	}

	shop := r.URL.Query().Get("shop")
	if shop == "" {
		writeError(w, http.StatusBadRequest, "missing shop parameter")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"authorizeUrl": s.authorizeURL(shop, s.callbackURL),
	})
}

func (s *Server) handleShopifyCallback(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizationFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization")
		return
	}

	query := r.URL.Query()
	resp, err := s.usecases.ConnectStore.Execute(r.Context(), dto.ConnectStoreRequest{
		OrganizationID: orgID,
		ShopDomain:     query.Get("shop"),
		Code:           query.Get("code"),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShopifyDisconnect(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizationFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization")
		return
	}

	if err := s.usecases.DisconnectStore.Execute(r.Context(), dto.DisconnectStoreRequest{OrganizationID: orgID}); err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

// handleWebhook is the unauthenticated webhook intake. Deliveries prove their
// origin with the HMAC signature header, verified against the integration's
// stored secret.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	req := dto.WebhookRequest{
		ShopDomain: r.Header.Get("X-Shopify-Shop-Domain"),
		Topic:      r.Header.Get("X-Shopify-Topic"),
		Signature:  r.Header.Get("X-Shopify-Hmac-Sha256"),
		RawBody:    body,
	}

	err = s.usecases.HandleWebhook.Execute(r.Context(), req)
	switch {
	case errors.Is(err, usecase.ErrUnknownShop):
		writeError(w, http.StatusNotFound, "unknown shop")
	case errors.Is(err, usecase.ErrBadSignature):
		writeError(w, http.StatusUnauthorized, "invalid signature")
	case err != nil:
		writeUseCaseError(w, err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
