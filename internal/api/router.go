package api

import (
	"log/slog"
	"net/http"

	_ "github.com/AlexZinkM/wallet-keystore/docs"
	"github.com/AlexZinkM/wallet-keystore/internal/handler"
	"github.com/AlexZinkM/wallet-keystore/internal/model"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(service handler.KeystoreService, validator model.Validator, logger *slog.Logger) http.Handler {
	keystoreHandler := handler.NewKeystoreHandler(service, validator, logger)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Keystore endpoints
	mux.HandleFunc("/keystores", keystoreHandler.List)
	mux.HandleFunc("/keystores/validate", keystoreHandler.Validate)
	mux.HandleFunc("/keystores/{address}", keystoreHandler.Keystore)
	mux.HandleFunc("/keystores/{address}/qr", keystoreHandler.QRCode)

	// Payload endpoints
	mux.HandleFunc("/payloads/parse", keystoreHandler.ParsePayload)
	mux.HandleFunc("/payloads/serialize", keystoreHandler.SerializePayload)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	return loggingMiddleware(logger, wrapped)
}
