package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/SeakMengs/AutoSign/internal/workflow"
	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	*baseController
}

const (
	ErrDocumentFileRequired = "document file is required"
	ErrDocumentIdRequired   = "document id is required"
)

func (dc DocumentController) UploadDocument(ctx *gin.Context) {
	identity, ok := dc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("document")
	if err != nil {
		dc.app.Logger.Debugf("No document uploaded: %v", err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "No document uploaded", util.GenerateErrorMessages(errors.New(ErrDocumentFileRequired), "document"), nil)
		return
	}

	maxSize := dc.app.Workflow.Options().MaxDocumentSize
	if maxSize > 0 && file.Size > maxSize {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Document too large", util.GenerateErrorMessages(fmt.Errorf("file exceeds the maximum size of %d bytes", maxSize), "document"), nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		dc.app.Logger.Errorf("Failed to open uploaded document: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to read document", util.GenerateErrorMessages(err, "document"), nil)
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		dc.app.Logger.Errorf("Failed to read uploaded document: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to read document", util.GenerateErrorMessages(err, "document"), nil)
		return
	}

	document, err := dc.app.Workflow.UploadDocument(ctx, identity, workflow.UploadDocumentInput{
		FileName: file.Filename,
		MimeType: file.Header.Get("Content-Type"),
		Content:  content,
	})
	if err != nil {
		dc.respondError(ctx, "Failed to upload document", err)
		return
	}

	util.ResponseSuccessWithStatus(ctx, http.StatusCreated, gin.H{
		"document": document,
	})
}

func (dc DocumentController) GetDocuments(ctx *gin.Context) {
	var params PaginationRequest

	identity, ok := dc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindQuery(&params); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}
	params.normalize()

	documents, total, err := dc.app.Workflow.ListDocuments(ctx, identity, params.Page, params.PageSize)
	if err != nil {
		dc.respondError(ctx, "Failed to get document list", err)
		return
	}

	if len(documents) == 0 {
		documents = []model.Document{}
	}

	util.ResponseSuccess(ctx, gin.H{
		"total":     total,
		"documents": documents,
		"page":      params.Page,
		"pageSize":  params.PageSize,
		"totalPage": util.CalculateTotalPage(total, params.PageSize),
	})
}

func (dc DocumentController) GetDocumentById(ctx *gin.Context) {
	identity, ok := dc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	document, err := dc.app.Workflow.GetDocument(ctx, identity, ctx.Param("documentId"))
	if err != nil {
		dc.respondError(ctx, "Failed to get document", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"document": document,
	})
}

func (dc DocumentController) GetDocumentStatus(ctx *gin.Context) {
	identity, ok := dc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	documentId := ctx.Param("documentId")
	status, err := dc.app.Workflow.DocumentStatus(ctx, identity, documentId)
	if err != nil {
		dc.respondError(ctx, "Failed to get document status", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"documentId": documentId,
		"status":     status,
	})
}

// ServeDocumentFile streams the pdf inline.
func (dc DocumentController) ServeDocumentFile(ctx *gin.Context) {
	identity, ok := dc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	file, err := dc.app.Workflow.OpenDocumentFile(ctx, identity, ctx.Param("documentId"))
	if err != nil {
		dc.respondError(ctx, "Failed to get document file", err)
		return
	}
	defer file.Content.Close()

	ctx.DataFromReader(http.StatusOK, file.Size, file.ContentType, file.Content, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", file.Name),
	})
}

func (dc DocumentController) DeleteDocument(ctx *gin.Context) {
	identity, ok := dc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	documentId := ctx.Param("documentId")
	if documentId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Document ID is required", util.GenerateErrorMessages(errors.New(ErrDocumentIdRequired), "documentId"), nil)
		return
	}

	if err := dc.app.Workflow.DeleteDocument(ctx, identity, documentId); err != nil {
		dc.respondError(ctx, "Failed to delete document", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"documentId": documentId,
	})
}
