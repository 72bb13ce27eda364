// Package handler provides HTTP handlers for the relay API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hpn/hpn-relay/internal/dispatcher"
	"github.com/hpn/hpn-relay/internal/domain"
)

// Context keys shared with LoggingMiddleware.
const (
	ctxKeyProvider     = "provider"
	ctxKeyModel        = "model"
	ctxKeyInputTokens  = "input_tokens"
	ctxKeyOutputTokens = "output_tokens"
	ctxKeyError        = "error"
)

const requiredFieldsMessage = "provider, model, messages are required"

// Router routes a neutral chat request to one vendor.
type Router interface {
	Route(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error)
	Providers() []dispatcher.ProviderStatus
}

// ChatHandler serves the /api endpoints. It maps every error to a JSON
// {"error": "..."} body and never lets one escape to the server.
type ChatHandler struct {
	router Router
	logger *slog.Logger
}

// ChatHandlerOption is a functional option for configuring ChatHandler.
type ChatHandlerOption func(*ChatHandler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ChatHandlerOption {
	return func(h *ChatHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(router Router, opts ...ChatHandlerOption) *ChatHandler {
	h := &ChatHandler{
		router: router,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// HandleChat handles POST /api/chat
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	c.Set(ctxKeyProvider, string(req.Provider))
	c.Set(ctxKeyModel, req.Model)
	c.Set(ctxKeyInputTokens, EstimateTokens(ExtractInputText(req.Messages, req.System)))

	resp, err := h.router.Route(c.Request.Context(), req)
	if err != nil {
		h.sendError(c, err)
		return
	}

	c.Set(ctxKeyOutputTokens, EstimateTokens(resp.Text))
	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /api/health
func (h *ChatHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// HandleProviders handles GET /api/providers
// Lists registered providers and whether each has a key, never the key itself.
func (h *ChatHandler) HandleProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.router.Providers()})
}

func (h *ChatHandler) handleBindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		c.Set(ctxKeyError, err.Error())
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		h.sendError(c, &domain.ValidationError{Message: "invalid JSON body"})
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		h.sendError(c, &domain.ValidationError{Message: typeErrorMessage(rawBody(c), typeErr)})
		return
	}

	h.logger.Debug("request body rejected", slog.String("error", err.Error()))
	h.sendError(c, &domain.ValidationError{Message: requiredFieldsMessage})
}

// rawBody returns the request body cached by ShouldBindBodyWithJSON.
func rawBody(c *gin.Context) []byte {
	if v, ok := c.Get(gin.BodyBytesKey); ok {
		if b, ok := v.([]byte); ok {
			return b
		}
	}
	return nil
}

// typeErrorMessage names the mistyped field. A wrong type for provider,
// model or messages itself counts as the field being absent.
func typeErrorMessage(body []byte, err *json.UnmarshalTypeError) string {
	switch err.Field {
	case "", "provider", "model", "messages":
		return requiredFieldsMessage
	}

	want := jsonTypeName(err.Type)
	if name, ok := strings.CutPrefix(err.Field, "messages."); ok {
		if i := firstInvalidMessage(body); i >= 0 {
			return fmt.Sprintf("messages[%d].%s must be %s", i, name, want)
		}
	}
	return fmt.Sprintf("%s must be %s", err.Field, want)
}

// firstInvalidMessage returns the index of the first message that does not
// decode into a ChatMessage, or -1.
func firstInvalidMessage(body []byte) int {
	var raw struct {
		Messages []json.RawMessage `json:"messages"`
	}
	if json.Unmarshal(body, &raw) != nil {
		return -1
	}
	for i, m := range raw.Messages {
		var msg domain.ChatMessage
		if json.Unmarshal(m, &msg) != nil {
			return i
		}
	}
	return -1
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}

// sendError maps the error taxonomy to a status code and a JSON error body.
func (h *ChatHandler) sendError(c *gin.Context, err error) {
	status, message := classify(err)
	c.Set(ctxKeyError, err.Error())

	if status >= http.StatusInternalServerError {
		h.logger.Error("chat request failed",
			slog.Int("status", status),
			slog.String("provider", c.GetString(ctxKeyProvider)),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(status, gin.H{"error": message})
}

func classify(err error) (int, string) {
	var (
		validationErr  *domain.ValidationError
		unsupportedErr *domain.UnsupportedProviderError
		credentialErr  *domain.MissingCredentialError
		vendorErr      *domain.VendorError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.As(err, &unsupportedErr):
		return http.StatusBadRequest, unsupportedErr.Error()
	case errors.As(err, &credentialErr):
		return http.StatusInternalServerError, "Provider " + string(credentialErr.Provider) + " is not configured on this server"
	case errors.As(err, &vendorErr):
		return http.StatusInternalServerError, vendorErr.Error()
	default:
		return http.StatusInternalServerError, "Server error"
	}
}
