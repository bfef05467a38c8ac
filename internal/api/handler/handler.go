package handler

import (
	"strconv"

	"pairwave/backend/internal/chathub"
	"pairwave/backend/internal/consent"
	"pairwave/backend/internal/storage"

	"go.uber.org/zap"
)

// Handler carries the dependencies shared by all HTTP endpoints.
type Handler struct {
	Hub       *chathub.Hub
	Gate      *consent.Gate
	Storage   storage.Storage
	JWTSecret []byte
	Log       *zap.Logger
}

func NewHandler(hub *chathub.Hub, gate *consent.Gate, s storage.Storage, jwtSecret string, log *zap.Logger) *Handler {
	return &Handler{
		Hub:       hub,
		Gate:      gate,
		Storage:   s,
		JWTSecret: []byte(jwtSecret),
		Log:       log,
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
