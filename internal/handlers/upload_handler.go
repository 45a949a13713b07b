package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"markethub_backend/internal/services"
	"markethub_backend/pkg/apperrors"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	uploads := r.Group("/uploads")
	uploads.Use(auth)
	{
		uploads.POST("", h.UploadImage)
		uploads.POST("/batch", h.UploadImages)
	}
}

func toUploadInput(fileHeader *multipart.FileHeader) (services.UploadInput, func(), error) {
	file, err := fileHeader.Open()
	if err != nil {
		return services.UploadInput{}, nil, err
	}
	return services.UploadInput{
		Reader:      file,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}, func() { file.Close() }, nil
}

// UploadImage - загрузка одного изображения
func (h *UploadHandler) UploadImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	entityType := c.PostForm("entity_type")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("no file provided"))
		return
	}

	input, closeFile, err := toUploadInput(fileHeader)
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer closeFile()

	uploaded, err := h.uploadService.Upload(c.Request.Context(), h.GetDB(c), userID, entityType, input)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, uploaded)
}

// UploadImages - пакетная загрузка
func (h *UploadHandler) UploadImages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	entityType := c.PostForm("entity_type")

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("failed to parse form: "+err.Error()))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("no files provided"))
		return
	}

	inputs := make([]services.UploadInput, 0, len(files))
	var closers []func()
	defer func() {
		for _, closeFile := range closers {
			closeFile()
		}
	}()

	for _, fileHeader := range files {
		input, closeFile, err := toUploadInput(fileHeader)
		if err != nil {
			apperrors.HandleError(c, apperrors.InternalError(err))
			return
		}
		closers = append(closers, closeFile)
		inputs = append(inputs, input)
	}

	result, err := h.uploadService.UploadBatch(c.Request.Context(), h.GetDB(c), userID, entityType, inputs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
