package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/JaineelPandya/social-book/internal/access"
	"github.com/JaineelPandya/social-book/internal/config"
	"github.com/JaineelPandya/social-book/internal/managers"
	"github.com/JaineelPandya/social-book/internal/middleware"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	fileFormKey = "file"
	// multipartOverhead is the allowance for the metadata fields and boundaries of an upload.
	multipartOverhead = 1 << 20
)

type FileHdl interface {
	UploadFile(c *gin.Context)
	ListMyFiles(c *gin.Context)
	ListUserFiles(c *gin.Context)
	GetFile(c *gin.Context)
	DownloadFile(c *gin.Context)
	UpdateFile(c *gin.Context)
	DeleteFile(c *gin.Context)
	GetEnrollment(c *gin.Context)
	UpdateEnrollment(c *gin.Context)
	GetDashboard(c *gin.Context)
}

type FileHandler struct {
	ContentManager managers.ContentMgr
	Validator      *utils.Validator
	Config         *config.Config
}

func NewFileHandler(contentMgr managers.ContentMgr, cfg *config.Config) FileHdl {
	return &FileHandler{
		ContentManager: contentMgr,
		Validator:      utils.GetValidator(),
		Config:         cfg,
	}
}

// UploadFile stores a multipart upload together with its metadata. The uploading user becomes the owner.
func (handler *FileHandler) UploadFile(c *gin.Context) {
	principal := middleware.Principal(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, handler.Config.MaxUploadBytes+multipartOverhead)

	uploadRequest := &schemas.UploadFileRequest{}
	if err := c.ShouldBind(uploadRequest); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			utils.WriteAndLogError(c, schemas.FileTooLarge, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}
	if err := handler.Validator.SanitizeData(uploadRequest); err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}
	if err := handler.Validator.Validate.Struct(uploadRequest); err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	fileHeader, err := c.FormFile(fileFormKey)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}
	if fileHeader.Size > handler.Config.MaxUploadBytes {
		utils.WriteAndLogError(c, schemas.FileTooLarge, http.StatusBadRequest,
			fmt.Errorf("file of %d bytes exceeds the limit of %d bytes", fileHeader.Size, handler.Config.MaxUploadBytes))
		return
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."))
	if !slices.Contains(handler.Config.Extensions(), extension) {
		utils.WriteAndLogError(c, schemas.FileTypeNotAllowed, http.StatusBadRequest, errors.New("extension "+extension+" not allowed"))
		return
	}

	costCents, err := utils.ParseCost(uploadRequest.Cost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	var description *string
	if uploadRequest.Description != "" {
		description = &uploadRequest.Description
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	item, err := handler.ContentManager.CreateItem(c, principal.ID, managers.NewContentItem{
		Title:         uploadRequest.Title,
		Description:   description,
		OriginalName:  filepath.Base(fileHeader.Filename),
		YearPublished: uploadRequest.YearPublished,
		CostCents:     costCents,
		Visibility:    schemas.Visibility(uploadRequest.Visibility),
	}, file)
	if err != nil {
		utils.WriteAndLogError(c, schemas.StorageError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, utils.CreateFileDto(item), http.StatusCreated)
}

// ListMyFiles lists the active files of the authenticated user.
func (handler *FileHandler) ListMyFiles(c *gin.Context) {
	principal := middleware.Principal(c)
	offset, limit := utils.ParsePaginationParams(c)

	items, total, err := handler.ContentManager.ListOwned(c, principal.ID, offset, limit)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, utils.CreatePaginatedResponse(utils.CreateFileDtos(items), offset, limit, total), http.StatusOK)
}

// ListUserFiles lists the files of the user in the path that the authenticated user may see.
func (handler *FileHandler) ListUserFiles(c *gin.Context) {
	ownerId, err := uuid.Parse(c.Param(utils.UserIdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}
	offset, limit := utils.ParsePaginationParams(c)

	list := handler.ContentManager.ListVisible
	if principal := middleware.Principal(c); principal != nil && principal.ID == ownerId {
		list = handler.ContentManager.ListOwned
	}

	items, total, err := list(c, ownerId, offset, limit)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, utils.CreatePaginatedResponse(utils.CreateFileDtos(items), offset, limit, total), http.StatusOK)
}

// GetFile returns the metadata of a file the authenticated user may view.
func (handler *FileHandler) GetFile(c *gin.Context) {
	item, ok := handler.loadItem(c, access.CanView)
	if !ok {
		return
	}

	utils.WriteAndLogResponse(c, utils.CreateFileDto(item), http.StatusOK)
}

// DownloadFile streams the content of a file the authenticated user may view.
func (handler *FileHandler) DownloadFile(c *gin.Context) {
	item, ok := handler.loadItem(c, access.CanView)
	if !ok {
		return
	}

	content, err := handler.ContentManager.OpenItem(c, item)
	if err != nil {
		if errors.Is(err, managers.ErrNotFound) {
			utils.WriteAndLogError(c, schemas.FileNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.StorageError, http.StatusInternalServerError, err)
		return
	}
	defer content.Close()

	contentType := mime.TypeByExtension(filepath.Ext(item.OriginalName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	utils.LogMessageWithFields(c, "info", "Serving file "+item.ID.String())
	c.DataFromReader(http.StatusOK, item.FileSize, contentType, content, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": item.OriginalName}),
	})
}

// UpdateFile changes the metadata of a file. Only the owner may do so.
func (handler *FileHandler) UpdateFile(c *gin.Context) {
	updateRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.UpdateFileRequest)

	item, ok := handler.loadItem(c, access.IsOwner)
	if !ok {
		return
	}

	update := managers.ContentUpdate{
		Title:         updateRequest.Title,
		Description:   updateRequest.Description,
		YearPublished: updateRequest.YearPublished,
		IsActive:      updateRequest.IsActive,
	}
	if updateRequest.Cost != nil {
		costCents, err := utils.ParseCost(*updateRequest.Cost)
		if err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}
		update.CostCents = &costCents
	}
	if updateRequest.Visibility != nil {
		visibility := schemas.Visibility(*updateRequest.Visibility)
		update.Visibility = &visibility
	}

	updated, err := handler.ContentManager.UpdateItem(c, item.ID, update)
	if err != nil {
		if errors.Is(err, managers.ErrNotFound) {
			utils.WriteAndLogError(c, schemas.FileNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, utils.CreateFileDto(updated), http.StatusOK)
}

// DeleteFile removes a file and its content. Only the owner may do so.
func (handler *FileHandler) DeleteFile(c *gin.Context) {
	item, ok := handler.loadItem(c, access.IsOwner)
	if !ok {
		return
	}

	if err := handler.ContentManager.DeleteItem(c, item.ID); err != nil {
		if errors.Is(err, managers.ErrNotFound) {
			utils.WriteAndLogError(c, schemas.FileNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.StorageError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, nil, http.StatusNoContent)
}

// GetEnrollment returns the enrollment data of a file, creating an empty record on first access.
// Only the owner may do so.
func (handler *FileHandler) GetEnrollment(c *gin.Context) {
	item, ok := handler.loadItem(c, access.IsOwner)
	if !ok {
		return
	}

	enrollment, err := handler.ContentManager.GetEnrollment(c, item)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, utils.CreateEnrollmentDto(enrollment), http.StatusOK)
}

// UpdateEnrollment stores the enrollment data of a file. Fields left empty keep their stored value.
func (handler *FileHandler) UpdateEnrollment(c *gin.Context) {
	enrollmentRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.EnrollmentRequest)

	item, ok := handler.loadItem(c, access.IsOwner)
	if !ok {
		return
	}

	update := managers.EnrollmentUpdate{Name: strings.TrimSpace(enrollmentRequest.Name)}
	if price := strings.TrimSpace(enrollmentRequest.Price); price != "" {
		priceCents, err := utils.ParseCost(price)
		if err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}
		update.Price = utils.FormatCost(priceCents)
	}

	enrollment, err := handler.ContentManager.SaveEnrollment(c, item, update)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, utils.CreateEnrollmentDto(enrollment), http.StatusOK)
}

// GetDashboard returns the file and enrollment counts of the authenticated user.
func (handler *FileHandler) GetDashboard(c *gin.Context) {
	principal := middleware.Principal(c)

	dashboard, err := handler.ContentManager.Dashboard(c, principal.ID)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, dashboard, http.StatusOK)
}

// loadItem loads the file in the path and applies allowed to the principal. Unknown files yield 404,
// files the principal may not access 403. The response is written if ok is false.
func (handler *FileHandler) loadItem(c *gin.Context, allowed func(*schemas.User, *schemas.ContentItem) bool) (*schemas.ContentItem, bool) {
	fileId, err := uuid.Parse(c.Param(utils.FileIdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.FileNotFound, http.StatusNotFound, err)
		return nil, false
	}

	item, err := handler.ContentManager.GetItem(c, fileId)
	if err != nil {
		if errors.Is(err, managers.ErrNotFound) {
			utils.WriteAndLogError(c, schemas.FileNotFound, http.StatusNotFound, err)
			return nil, false
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil, false
	}

	if !allowed(middleware.Principal(c), item) {
		utils.WriteAndLogError(c, schemas.FileForbidden, http.StatusForbidden, managers.ErrForbidden)
		return nil, false
	}

	return item, true
}
