package echo

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octabyte/bm-queue-console/models"
	otelecho "github.com/octabyte/bm-queue-console/otel/echo"
	otellogger "github.com/octabyte/bm-queue-console/otel/logger"
	"github.com/octabyte/bm-queue-console/otel/metrics"
	"github.com/octabyte/bm-queue-console/queue"
	"github.com/octabyte/bm-queue-console/web"
)

const (
	msgMissingFields  = "Email e mensagem são obrigatórios"
	msgPublished      = "Mensagem enviada para a fila com sucesso!"
	msgPublishedToFmt = "Mensagem enviada para o canal %s com sucesso!"
)

func (s *Server) index(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, web.Index)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStats(c echo.Context) error {
	ctx := c.Request().Context()

	snapshot, err := s.stats.Stats(ctx)
	if err != nil {
		otellogger.ErrorCtx(ctx, "failed to read queue stats", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, snapshot)
}

func (s *Server) publish(c echo.Context) error {
	req, ok := s.bindPublish(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgMissingFields})
	}

	id, err := s.send(c, "/publicar", req, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, models.PublishResponse{Message: msgPublished, ID: id})
}

func (s *Server) publishToChannel(c echo.Context) error {
	req, ok := s.bindPublish(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgMissingFields})
	}

	canal := req.Canal
	if canal == "" {
		canal = models.DefaultChannel
	}
	c.Set(otelecho.ChannelKey, canal)

	id, err := s.send(c, "/publicar-canal", req, canal)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, models.PublishResponse{
		Message: fmt.Sprintf(msgPublishedToFmt, canal),
		ID:      id,
	})
}

// bindPublish reports false for an unreadable body or a missing field.
func (s *Server) bindPublish(c echo.Context) (models.PublishRequest, bool) {
	var req models.PublishRequest
	if err := c.Bind(&req); err != nil {
		s.log.Debug("invalid publish body", zap.Error(err))
		return req, false
	}
	if err := s.validate.Struct(req); err != nil {
		s.log.Debug("publish request rejected", zap.Error(err))
		return req, false
	}
	return req, true
}

func (s *Server) send(c echo.Context, endpoint string, req models.PublishRequest, channel string) (string, error) {
	ctx := c.Request().Context()

	body, err := json.Marshal(models.QueueMessage{Email: req.Email, Msg: req.Mensagem})
	if err != nil {
		return "", err
	}

	start := time.Now()
	id, err := s.publisher.Publish(ctx, queue.Message{Body: body, ChannelID: channel})
	metrics.RecordPublish(ctx, endpoint, channel, time.Since(start), err == nil)
	if err != nil {
		otellogger.ErrorCtx(ctx, "failed to publish message", err, zap.String("channel_id", channel))
		return "", err
	}

	otellogger.InfoCtx(ctx, "message published",
		zap.String("message_id", id),
		zap.String("channel_id", channel),
	)
	return id, nil
}
