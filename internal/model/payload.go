package model

// ValidateResponse represents response for POST /keystores/validate
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Field string `json:"field,omitempty"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// PayloadRequest represents request for POST /payloads/parse
type PayloadRequest struct {
	EncryptedPrivateKey string `json:"encryptedPrivateKey"`
}

// PayloadResponse represents response for POST /payloads/serialize
type PayloadResponse struct {
	EncryptedPrivateKey string `json:"encryptedPrivateKey"`
}

// KeystoreListResponse represents response for GET /keystores
type KeystoreListResponse struct {
	Keystores []LocalKeystore `json:"keystores"`
}
