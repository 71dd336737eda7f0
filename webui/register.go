package webui

import (
	_ "embed"
	"errors"
	"net/http"
	"strings"
	"transcript-sentiment/client"
	"transcript-sentiment/dom"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed web/index.html
var indexHTML string

// NewPage parses a fresh copy of the analysis page and binds a view to it.
func NewPage() (*dom.View, error) {
	return dom.Parse(strings.NewReader(indexHTML))
}

// RegisterRoutes serves the page on basePath. A form post to basePath runs the
// transcript controller server side against a, and answers with the rendered page.
func RegisterRoutes(r gin.IRoutes, basePath string, logger *zap.Logger, a client.Analyzer) {
	if basePath == "" {
		basePath = "/"
	}
	r.GET(basePath, func(ctx *gin.Context) {
		ctx.Header("Content-Type", "text/html; charset=utf-8")
		ctx.String(http.StatusOK, indexHTML)
	})
	r.POST(basePath, HandleSubmit(logger, a))
}

// HandleSubmit analyzes the posted "transcript" form field.
func HandleSubmit(logger *zap.Logger, a client.Analyzer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		page, err := NewPage()
		if err != nil {
			logger.Error("Page binding failed", zap.Error(err))
			ctx.String(http.StatusInternalServerError, "page unavailable")
			return
		}

		transcript := ctx.PostForm("transcript")
		page.SetTranscript(transcript)

		status := http.StatusOK
		err = client.NewController(a, page, logger).Submit(ctx.Request.Context(), transcript)
		switch {
		case errors.Is(err, client.ErrEmptyTranscript):
			status = http.StatusBadRequest
		case err != nil:
			status = http.StatusBadGateway
		}

		ctx.Header("Content-Type", "text/html; charset=utf-8")
		ctx.Status(status)
		if err := page.Render(ctx.Writer); err != nil {
			logger.Error("Page rendering failed", zap.Error(err))
		}
	}
}
