package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/service"
)

type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// RequestImageUpload godoc
// @Summary Get a presigned URL for uploading an image
// @Description The client PUTs the file to uploadUrl with the same Content-Type, then stores publicUrl in an image field.
// @Tags Uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body service.ImageUploadCommand true "File metadata"
// @Success 201 {object} service.UploadTicket
// @Failure 400 {object} gin.H "Unsupported content type or too large"
// @Failure 502 {object} gin.H "Object storage unavailable"
// @Router /uploads/images [post]
func (h *UploadHandler) RequestImageUpload(c *gin.Context) {
	principal, _ := principalFromContext(c)
	var cmd service.ImageUploadCommand
	if !bindJSON(c, &cmd) {
		return
	}
	ticket, err := h.uploadService.RequestImageUpload(c.Request.Context(), principal, cmd)
	if errors.Is(err, service.ErrUploadURLError) {
		abortWithError(c, http.StatusBadGateway, "Could not prepare the upload")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *UploadHandler) ListMine(c *gin.Context) {
	principal, _ := principalFromContext(c)
	uploads, err := h.uploadService.ListMine(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	if uploads == nil {
		uploads = []domain.Upload{}
	}
	c.JSON(http.StatusOK, uploads)
}

// DownloadURL godoc
// @Summary Get a short-lived download URL for one of your uploads
// @Tags Uploads
// @Produce json
// @Security BearerAuth
// @Param uploadId path string true "Upload ID"
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /uploads/{uploadId}/download [get]
func (h *UploadHandler) DownloadURL(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.UploadKind](c, "uploadId")
	if !ok {
		return
	}
	url, err := h.uploadService.DownloadURL(c.Request.Context(), principal, id)
	if errors.Is(err, service.ErrDownloadURLError) {
		abortWithError(c, http.StatusBadGateway, "Could not prepare the download")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

func (h *UploadHandler) Delete(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.UploadKind](c, "uploadId")
	if !ok {
		return
	}
	if err := h.uploadService.Delete(c.Request.Context(), principal, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
