package api

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
)

// Server registers the HTTP decode service's routes on an *echo.Echo,
// mirroring the teacher's Server/Register split in internal/api.
type Server struct {
	service *DecodeService
}

func NewServer(service *DecodeService) *Server {
	return &Server{service: service}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/healthz", s.handleHealthz)
	e.POST("/v1/decode/batch", s.handleDecodeBatch)
	e.POST("/v1/decode/round", s.handleDecodeRound)
}

func (s *Server) handleHealthz(c *echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleDecodeBatch(c *echo.Context) error {
	req, err := decodeJSON[DecodeBatchRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	resp, err := s.service.DecodeBatch(c.Request().Context(), req)
	if err != nil {
		return writeDecodeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDecodeRound(c *echo.Context) error {
	req, err := decodeJSON[DecodeRoundRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	resp, err := s.service.DecodeRound(c.Request().Context(), req)
	if err != nil {
		return writeDecodeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func writeDecodeError(c *echo.Context, err error) error {
	if errors.Is(err, ErrInvalidRequest) {
		return writeBadRequest(c, err.Error())
	}
	return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": map[string]string{
			"type":    errType,
			"message": msg,
		},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
