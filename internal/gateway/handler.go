package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/ipquery/geolookup/internal/geo"
	"github.com/ipquery/geolookup/internal/logger"
	"github.com/ipquery/geolookup/internal/models"
	"github.com/ipquery/geolookup/internal/service"
)

// Handler adapts API Gateway proxy events to the lookup service.
// Each Lambda invocation handles exactly one event; there is no shared
// mutable state across invocations.
type Handler struct {
	service *service.LookupService
	logger  *logger.Logger
}

// NewHandler creates a new API Gateway event handler
func NewHandler(svc *service.LookupService, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Handler{
		service: svc,
		logger:  log.WithComponent("GatewayHandler"),
	}
}

// Handle processes one API Gateway proxy event.
// Every failure is converted into the error envelope with status 500;
// the returned error is always nil so API Gateway renders our envelope
// instead of its own 502.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	sourceAddr := event.RequestContext.Identity.SourceIP

	h.logger.Info().
		Str("path", event.Path).
		Str("method", event.HTTPMethod).
		Str("source_ip", sourceAddr).
		Msg("Received event")

	req, err := models.ParseLookupRequest([]byte(event.Body))
	if err != nil {
		return h.errorResponse(geo.InvalidInput("invalid request body", err)), nil
	}

	ip := h.service.ResolveTargetIP(req.IP, sourceAddr)

	location, err := h.service.Lookup(ctx, ip)
	if err != nil {
		return h.errorResponse(err), nil
	}

	return jsonResponse(http.StatusOK, models.SuccessEnvelope(ip, location)), nil
}

func (h *Handler) errorResponse(err error) events.APIGatewayProxyResponse {
	h.logger.Error().
		Err(err).
		Str("kind", string(geo.KindOf(err))).
		Msg("Error processing request")
	return jsonResponse(http.StatusInternalServerError, models.ErrorEnvelope(err))
}

// jsonResponse renders an envelope as a proxy response with the fixed
// CORS headers
func jsonResponse(statusCode int, envelope models.Envelope) events.APIGatewayProxyResponse {
	body, err := json.Marshal(envelope)
	if err != nil {
		// The envelope is a plain struct; marshalling it cannot fail in
		// practice, but keep the contract anyway
		statusCode = http.StatusInternalServerError
		body = []byte(`{"success":false,"error":"failed to encode response","message":"` + models.MessageFailure + `"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    models.CORSHeaders(),
		Body:       string(body),
	}
}
