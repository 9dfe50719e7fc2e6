package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "configly/internal/errors"
	"configly/internal/pagination"
	"configly/internal/services"
)

// FileHandler handles client file uploads.
type FileHandler struct {
	fileService services.FileServicer
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(fileService services.FileServicer) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload accepts a multipart upload under the "file" form field.
func (h *FileHandler) Upload(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "A file form field is required"))
		return
	}

	src, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer src.Close()

	file, err := h.fileService.Upload(c.Request.Context(), clientID,
		header.Filename, header.Header.Get("Content-Type"), header.Size, src)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"file": file})
}

// List returns the client's files, paginated.
func (h *FileHandler) List(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.fileService.List(clientID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, result)
}

// GetURL returns a time-limited download URL for a file.
func (h *FileHandler) GetURL(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	url, err := h.fileService.PresignedURL(c.Request.Context(), clientID, fileID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"url": url})
}

// Delete removes a file from storage and the record.
func (h *FileHandler) Delete(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), clientID, fileID); err != nil {
		respondWithError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "File deleted", nil)
}
