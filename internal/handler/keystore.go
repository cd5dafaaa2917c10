package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/wallet-keystore/internal/keystore"
	"github.com/AlexZinkM/wallet-keystore/internal/model"
)

const qrSize = 256

// KeystoreService is the part of keystore.Vault the HTTP layer needs.
// Nothing here returns decrypted key material.
type KeystoreService interface {
	Get(ctx context.Context, address string) (model.LocalKeystore, error)
	List(ctx context.Context) ([]model.LocalKeystore, error)
	Delete(ctx context.Context, address string) error
}

// KeystoreHandler serves keystore records and payload helpers.
type KeystoreHandler struct {
	service   KeystoreService
	validator model.Validator
	logger    *slog.Logger
}

// NewKeystoreHandler creates a new KeystoreHandler.
func NewKeystoreHandler(service KeystoreService, validator model.Validator, logger *slog.Logger) *KeystoreHandler {
	return &KeystoreHandler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *KeystoreHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, keystore.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, keystore.ErrAlreadyExists):
		status = http.StatusConflict
	default:
		if _, ok := model.AsValidationError(err); ok {
			status = http.StatusUnprocessableEntity
		}
	}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, model.NewErrorResponse(err))
}

// Validate handles POST /keystores/validate
// @Summary      Validate keystore record
// @Description  Checks address format, payload format, source fields and timestamp of a record
// @Tags         keystores
// @Accept       json
// @Produce      json
// @Param        request  body      model.LocalKeystore  true  "Keystore record"
// @Success      200      {object}  model.ValidateResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ValidateResponse
// @Router       /keystores/validate [post]
func (h *KeystoreHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var record model.LocalKeystore
	err := json.NewDecoder(r.Body).Decode(&record)
	if err == nil {
		err = h.validator.Validate(record)
	}
	if err == nil {
		writeJSON(w, http.StatusOK, model.ValidateResponse{Valid: true})
		return
	}

	ve, ok := model.AsValidationError(err)
	if !ok {
		writeJSON(w, http.StatusBadRequest, model.NewErrorResponse(err))
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, model.ValidateResponse{
		Valid: false,
		Field: ve.Field,
		Code:  ve.Code(),
		Error: ve.Error(),
	})
}

// ParsePayload handles POST /payloads/parse
// @Summary      Parse encrypted payload
// @Description  Splits an iv:tag:encrypted string into its components
// @Tags         payloads
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayloadRequest  true  "Serialized payload"
// @Success      200      {object}  model.EncryptedData
// @Failure      400      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /payloads/parse [post]
func (h *KeystoreHandler) ParsePayload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PayloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.NewErrorResponse(err))
		return
	}

	payload, err := model.ParseEncryptedData(req.EncryptedPrivateKey)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// SerializePayload handles POST /payloads/serialize
// @Summary      Serialize encrypted payload
// @Description  Joins payload components into the iv:tag:encrypted string
// @Tags         payloads
// @Accept       json
// @Produce      json
// @Param        request  body      model.EncryptedData  true  "Payload components"
// @Success      200      {object}  model.PayloadResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /payloads/serialize [post]
func (h *KeystoreHandler) SerializePayload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var payload model.EncryptedData
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, model.NewErrorResponse(err))
		return
	}
	if err := payload.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.PayloadResponse{EncryptedPrivateKey: payload.Serialize()})
}

// List handles GET /keystores
// @Summary      List keystores
// @Description  Returns all encrypted keystore records
// @Tags         keystores
// @Produce      json
// @Success      200  {object}  model.KeystoreListResponse
// @Router       /keystores [get]
func (h *KeystoreHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	records, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []model.LocalKeystore{}
	}
	writeJSON(w, http.StatusOK, model.KeystoreListResponse{Keystores: records})
}

// Keystore handles GET and DELETE /keystores/{address}
// @Summary      Get or delete keystore
// @Description  GET returns the encrypted record, DELETE removes it
// @Tags         keystores
// @Produce      json
// @Param        address  path      string  true  "Wallet address"
// @Success      200      {object}  model.LocalKeystore
// @Success      204
// @Failure      404      {object}  model.ErrorResponse
// @Router       /keystores/{address} [get]
// @Router       /keystores/{address} [delete]
func (h *KeystoreHandler) Keystore(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	switch r.Method {
	case http.MethodGet:
		record, err := h.service.Get(r.Context(), address)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	case http.MethodDelete:
		if err := h.service.Delete(r.Context(), address); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed. Should be GET or DELETE", http.StatusMethodNotAllowed)
	}
}

// QRCode handles GET /keystores/{address}/qr
// @Summary      Address QR code
// @Description  Returns a PNG QR code encoding the wallet address
// @Tags         keystores
// @Produce      png
// @Param        address  path  string  true  "Wallet address"
// @Success      200
// @Failure      404  {object}  model.ErrorResponse
// @Router       /keystores/{address}/qr [get]
func (h *KeystoreHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	record, err := h.service.Get(r.Context(), r.PathValue("address"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	png, err := qrcode.Encode(record.Address, qrcode.Medium, qrSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
