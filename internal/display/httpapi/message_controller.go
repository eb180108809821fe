package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"disp32x8-server/internal/display/domain"
	"disp32x8-server/internal/display/httpapi/internal"
	"disp32x8-server/internal/display/usecases"
	"disp32x8-server/internal/infra/httpserver"

	"go.opentelemetry.io/otel/attribute"
)

const (
	invalidDeviceErrMessage  = "invalid device id"
	invalidBodyErrMessage    = "invalid message request"
	missingMessageErrMessage = "missing message"

	_legacyDefaultType = "scroll"
)

func NewMessageController(service usecases.DisplayService) *MessageController {
	return &MessageController{
		service: service,
	}
}

var _ httpserver.Controller = &MessageController{}

// MessageController exposes the text message command over HTTP.
type MessageController struct {
	service usecases.DisplayService
	nextID  atomic.Int64
}

func (c *MessageController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/devices", c.listDevices())
	router.Handle("POST /v1/devices/{id}/messages", c.postMessage())
	router.Handle("GET /rest/cmd/id/{id}", c.legacyCommand())
}

func (c *MessageController) listDevices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromDevices(c.service.Devices()))
	}
}

func (c *MessageController) postMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, err := parseDeviceID(r)
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidDeviceErrMessage)
			return
		}

		var body internal.MessageRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidBodyErrMessage)
			return
		}

		c.dispatch(w, r, deviceID, body.Message, body.Position)
	}
}

// legacyCommand keeps the query string form used by older scripts:
// /rest/cmd/id/{id}?message=...&type=center
func (c *MessageController) legacyCommand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, err := parseDeviceID(r)
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidDeviceErrMessage)
			return
		}

		message := httpserver.GetQueryParam(r, "message")
		if message == "" {
			httpserver.ReplyWithError(w, http.StatusBadRequest, missingMessageErrMessage)
			return
		}

		position := httpserver.GetQueryParam(r, "type")
		if position == "" {
			position = _legacyDefaultType
		}

		c.dispatch(w, r, deviceID, message, position)
	}
}

func (c *MessageController) dispatch(w http.ResponseWriter, r *http.Request, deviceID domain.DeviceID, message, position string) {
	span := httpserver.GetSpanFromContext(r)
	span.SetAttributes(
		attribute.Int("device.id", int(deviceID)),
		attribute.String("position", position),
	)

	cmd := domain.Command{
		ID:       int(c.nextID.Add(1)),
		DeviceID: deviceID,
		Message:  message,
		Position: position,
	}

	result, err := c.service.OnCommand(r.Context(), cmd)
	switch {
	case errors.Is(err, usecases.ErrUnknownDevice):
		httpserver.ReplyJSONResponse(w, http.StatusNotFound, result)
	case errors.Is(err, domain.ErrUnknownPosition):
		httpserver.ReplyJSONResponse(w, http.StatusBadRequest, result)
	case err != nil:
		slog.Error("handling http message command", slog.Int("device_id", int(deviceID)), slog.Any("error", err))
		httpserver.ReplyJSONResponse(w, http.StatusInternalServerError, result)
	default:
		httpserver.ReplyJSONResponse(w, http.StatusAccepted, result)
	}
}

func parseDeviceID(r *http.Request) (domain.DeviceID, error) {
	id, err := strconv.Atoi(httpserver.GetPathParam(r, "id"))
	if err != nil {
		return 0, err
	}
	return domain.DeviceID(id), nil
}
