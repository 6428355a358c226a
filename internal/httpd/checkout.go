package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stromabio/stroma/pkg/payments"
)

// handleCheckout forwards a validated cart to the payment processor and
// returns the hosted session the frontend should redirect to. Card data
// never touches this process.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req payments.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid checkout body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	session, err := s.cfg.Payments.CreateSession(r.Context(), req)
	if err != nil {
		status := http.StatusBadGateway
		if r.Context().Err() != nil && errors.Is(err, r.Context().Err()) {
			status = http.StatusGatewayTimeout
		}
		s.logger.Warn("checkout session failed", "error", err)
		writeError(w, status, "could not create checkout session")
		return
	}

	writeJSON(w, http.StatusCreated, session)
}
