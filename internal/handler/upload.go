package handler

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/AnikethTS/citadel-backend-v2/internal/metrics"
	"github.com/AnikethTS/citadel-backend-v2/internal/model"
	"github.com/AnikethTS/citadel-backend-v2/internal/repository"
	"github.com/AnikethTS/citadel-backend-v2/internal/service"
)

type UploadHandler struct {
	blobs      *repository.BlobStore
	dispatcher *service.Dispatcher
	baseURL    string
	log        zerolog.Logger
}

func NewUploadHandler(blobs *repository.BlobStore, dispatcher *service.Dispatcher, baseURL string, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{blobs: blobs, dispatcher: dispatcher, baseURL: baseURL, log: log}
}

// Upload accepts a multipart media file, stores it, and publishes it to the
// chat as a message with an empty body and a populated media descriptor.
// POST /upload (fields: file, sender, time)
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "file is required"})
	}

	f, err := fh.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("open uploaded file")
		return c.Status(500).JSON(fiber.Map{"error": "failed to read upload"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.log.Error().Err(err).Msg("read uploaded file")
		return c.Status(500).JSON(fiber.Map{"error": "failed to read upload"})
	}

	name, err := h.blobs.Save(data, fh.Filename)
	if err != nil {
		h.log.Error().Err(err).Msg("store uploaded file")
		return c.Status(500).JSON(fiber.Map{"error": "failed to store upload"})
	}

	url := h.baseURL + "/uploads/" + name
	msg := model.Message{
		Sender: c.FormValue("sender"),
		Media: &model.Media{
			Type: mediaKind(fh.Header.Get("Content-Type")),
			URL:  url,
		},
		Time: c.FormValue("time"),
	}

	if err := h.dispatcher.PublishMedia(msg); err != nil {
		h.log.Error().Err(err).Msg("store media message")
		return c.Status(500).JSON(fiber.Map{"error": "failed to store message"})
	}

	metrics.UploadsStored.Inc()
	return c.JSON(fiber.Map{"url": url, "type": msg.Media.Type})
}

// ServeUpload resolves a previously returned media URL to its bytes.
// GET /uploads/:name
func (h *UploadHandler) ServeUpload(c *fiber.Ctx) error {
	name := c.Params("name")
	data, err := h.blobs.Open(name)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "not found"})
	}

	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		c.Set(fiber.HeaderContentType, ct)
	}
	return c.Send(data)
}

// mediaKind maps an upload's MIME type onto the two media kinds the clients
// render: anything not video is shown as an image.
func mediaKind(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return "video"
	}
	return "image"
}
