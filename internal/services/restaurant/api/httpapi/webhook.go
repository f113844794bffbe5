package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/payment"
)

// legacySignatureHeader is still sent by processors configured before the
// header rename.
const legacySignatureHeader = "Stripe-Signature"

func (h *Handler) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, apperrors.New(apperrors.CodePaymentPayloadInvalid, "payment payload too large"))
			return
		}
		writeError(w, r, apperrors.Wrap(apperrors.CodePaymentPayloadInvalid, "payment payload could not be read", err))
		return
	}
	signature := r.Header.Get(payment.SignatureHeader)
	if strings.TrimSpace(signature) == "" {
		signature = r.Header.Get(legacySignatureHeader)
	}
	if _, err := h.deps.Payments.Handle(r.Context(), signature, body); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
