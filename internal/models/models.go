package models

import (
	"bytes"
	"encoding/json"
)

// GeoInfo is the normalized geolocation shape returned to callers.
// Every provider response is mapped into these fixed keys; string fields
// missing upstream are rendered as "Unknown" and coordinates as 0, so the
// shape never changes between providers or between lucky and unlucky lookups.
type GeoInfo struct {
	Country      string  `json:"country"`
	CountryCode  string  `json:"country_code"`
	Region       string  `json:"region"` // region name, e.g. "California"
	RegionCode   string  `json:"region_code"`
	City         string  `json:"city"`
	ZipCode      string  `json:"zip_code"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timezone     string  `json:"timezone"`
	ISP          string  `json:"isp"`
	Organization string  `json:"organization"`
	ASInfo       string  `json:"as_info"`
}

// LookupRequest is the optional JSON request body
type LookupRequest struct {
	IP string `json:"ip"`
}

// Envelope is the uniform response wrapper, success or failure.
// On success: success=true, ip and location set, error absent.
// On failure: success=false, error set, ip and location absent.
type Envelope struct {
	Success  bool     `json:"success"`
	IP       string   `json:"ip,omitempty"`
	Location *GeoInfo `json:"location,omitempty"`
	Message  string   `json:"message"`
	Error    string   `json:"error,omitempty"`
}

// Fixed human-readable messages carried in every envelope
const (
	MessageSuccess = "Geolocation retrieved successfully"
	MessageFailure = "Failed to retrieve geolocation"
)

// SuccessEnvelope builds the envelope for a successful lookup
func SuccessEnvelope(ip string, location *GeoInfo) Envelope {
	return Envelope{
		Success:  true,
		IP:       ip,
		Location: location,
		Message:  MessageSuccess,
	}
}

// ErrorEnvelope builds the envelope for any failure.
// The error kind is not surfaced to the caller, only the message text.
func ErrorEnvelope(err error) Envelope {
	return Envelope{
		Success: false,
		Error:   err.Error(),
		Message: MessageFailure,
	}
}

// CORSHeaders returns the fixed response headers sent with every response,
// success or failure. A fresh map is returned so callers can't mutate a
// shared one.
func CORSHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

// ParseLookupRequest decodes an optional JSON request body.
// An empty or whitespace-only body is treated as an empty request;
// malformed JSON is an error the caller turns into an InvalidInput failure.
func ParseLookupRequest(body []byte) (LookupRequest, error) {
	var req LookupRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return LookupRequest{}, err
	}
	return req, nil
}
