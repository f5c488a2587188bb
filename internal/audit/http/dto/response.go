// Package dto maps access log entries to their JSON representation.
package dto

import (
	"encoding/hex"
	"time"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
)

// AccessLogResponse is one entry of GET /v1/admin/audit-logs.
type AccessLogResponse struct {
	ID              string    `json:"id"`
	AuthorizationID *string   `json:"authorizationId"`
	UserID          string    `json:"userId"`
	UserEmail       string    `json:"userEmail"`
	Action          string    `json:"action"`
	IPAddress       string    `json:"ipAddress"`
	Signature       string    `json:"signature,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ListAccessLogsResponse wraps a page of entries.
type ListAccessLogsResponse struct {
	Data []AccessLogResponse `json:"data"`
}

// MapAccessLogToResponse converts an entry; the signature is hex encoded.
func MapAccessLogToResponse(log *auditDomain.AccessLog) AccessLogResponse {
	resp := AccessLogResponse{
		ID:        log.ID.String(),
		UserID:    log.UserID.String(),
		UserEmail: log.UserEmail,
		Action:    string(log.Action),
		IPAddress: log.IPAddress,
		Signature: hex.EncodeToString(log.Signature),
		CreatedAt: log.CreatedAt,
	}
	if log.AuthorizationID != nil {
		id := log.AuthorizationID.String()
		resp.AuthorizationID = &id
	}
	return resp
}

// MapAccessLogsToListResponse converts a page of entries.
func MapAccessLogsToListResponse(logs []*auditDomain.AccessLog) ListAccessLogsResponse {
	data := make([]AccessLogResponse, 0, len(logs))
	for _, log := range logs {
		data = append(data, MapAccessLogToResponse(log))
	}
	return ListAccessLogsResponse{Data: data}
}
