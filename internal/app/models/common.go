package models

// EncryptedPayloadRequest wraps a request body encrypted to the registry's
// public key.
type EncryptedPayloadRequest struct {
	Payload string `json:"payload" validate:"required"`
}

type WebResponse[T any] struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message,omitempty"`
	Type       string         `json:"type,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
	Data       T              `json:"data,omitempty"`
}
