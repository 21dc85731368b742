package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"reelforge/internal/errors"
	"reelforge/internal/transcode"
)

// Transcoder is the part of transcode.Runner the handler needs.
type Transcoder interface {
	Version(ctx context.Context) (*transcode.VersionInfo, error)
	Convert(ctx context.Context, opts transcode.ConvertOptions) error
}

// TranscodeHandler exposes ffmpeg diagnostics and the sample conversion.
type TranscodeHandler struct {
	runner    Transcoder
	assetsDir string
	log       logrus.FieldLogger
}

// NewTranscodeHandler creates a handler converting files inside assetsDir.
func NewTranscodeHandler(runner Transcoder, assetsDir string, log logrus.FieldLogger) *TranscodeHandler {
	return &TranscodeHandler{runner: runner, assetsDir: assetsDir, log: log}
}

// ConvertResponse reports the outcome of a conversion.
type ConvertResponse struct {
	OK     bool   `json:"ok"`
	Output string `json:"output,omitempty"`
	Code   *int   `json:"code,omitempty"`
}

// Version godoc
// @Summary Report the ffmpeg version line
// @Tags transcode
// @Produce json
// @Success 200 {object} transcode.VersionInfo
// @Failure 500 {object} errors.ErrorResponse
// @Router /ffmpeg-version [get]
func (h *TranscodeHandler) Version(c echo.Context) error {
	info, err := h.runner.Version(c.Request().Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, info)
}

// ConvertSimple godoc
// @Summary Re-encode the sample input.mov to out-simple.mp4
// @Tags transcode
// @Produce json
// @Success 200 {object} ConvertResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} ConvertResponse
// @Router /convert-simple [post]
func (h *TranscodeHandler) ConvertSimple(c echo.Context) error {
	input, err := filepath.Abs(filepath.Join(h.assetsDir, "input.mov"))
	if err != nil {
		return fail(c, h.log, err)
	}
	output := filepath.Join(filepath.Dir(input), "out-simple.mp4")

	if _, err := os.Stat(input); err != nil {
		return fail(c, h.log, errors.Validation("Input file not found at "+input))
	}

	if err := h.runner.Convert(c.Request().Context(), transcode.SimpleConvert(input, output)); err != nil {
		var exitErr *transcode.ExitError
		if stderrors.As(err, &exitErr) {
			return c.JSON(http.StatusInternalServerError, ConvertResponse{OK: false, Code: &exitErr.Code})
		}
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, ConvertResponse{OK: true, Output: output})
}
