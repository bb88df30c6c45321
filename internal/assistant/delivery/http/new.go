package http

import (
	"github.com/gin-gonic/gin"

	"qametrics-assistant/internal/assistant"
	pkgLog "qametrics-assistant/pkg/log"
)

// Handler exposes the assistant over HTTP.
type Handler interface {
	Chat(c *gin.Context)
	ChatStream(c *gin.Context)
}

type handler struct {
	l  pkgLog.Logger
	uc assistant.UseCase
}

// New creates the assistant HTTP handler.
func New(l pkgLog.Logger, uc assistant.UseCase) Handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
