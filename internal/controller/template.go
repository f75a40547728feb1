package controller

import (
	"net/http"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/SeakMengs/AutoSign/internal/workflow"
	"github.com/gin-gonic/gin"
)

// TemplateController manages a document's signature fields and signer roles.
type TemplateController struct {
	*baseController
}

type FieldRequest struct {
	PageNumber  int                `json:"pageNumber" binding:"required,gte=1"`
	PositionX   float64            `json:"positionX" binding:"gte=0,lte=100"`
	PositionY   float64            `json:"positionY" binding:"gte=0,lte=100"`
	Width       float64            `json:"width" binding:"required,gt=0,lte=100"`
	Height      float64            `json:"height" binding:"required,gt=0,lte=100"`
	FieldType   constant.FieldType `json:"fieldType" binding:"required,oneof=signature date text initials"`
	IsRequired  *bool              `json:"isRequired"`
	Label       string             `json:"label" binding:"omitempty,max=200"`
	RoleID      string             `json:"roleId" binding:"omitempty"`
	SignerEmail string             `json:"signerEmail" binding:"omitempty,email"`
	SignerName  string             `json:"signerName" binding:"omitempty,cmax=100"`
}

func (fr FieldRequest) toSpec() workflow.FieldSpec {
	return workflow.FieldSpec{
		Box: workflow.Box{
			PageNumber: fr.PageNumber,
			PositionX:  fr.PositionX,
			PositionY:  fr.PositionY,
			Width:      fr.Width,
			Height:     fr.Height,
		},
		FieldType:   fr.FieldType,
		IsRequired:  fr.IsRequired,
		Label:       fr.Label,
		RoleID:      fr.RoleID,
		SignerEmail: fr.SignerEmail,
		SignerName:  fr.SignerName,
	}
}

func (tc TemplateController) AddField(ctx *gin.Context) {
	var body FieldRequest

	identity, ok := tc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	field, err := tc.app.Workflow.DefineField(ctx, identity, ctx.Param("documentId"), body.toSpec())
	if err != nil {
		tc.respondError(ctx, "Failed to add field", err)
		return
	}

	util.ResponseSuccessWithStatus(ctx, http.StatusCreated, gin.H{
		"field": field,
	})
}

func (tc TemplateController) GetFields(ctx *gin.Context) {
	identity, ok := tc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	fields, err := tc.app.Workflow.ListFields(ctx, identity, ctx.Param("documentId"))
	if err != nil {
		tc.respondError(ctx, "Failed to get fields", err)
		return
	}

	if len(fields) == 0 {
		fields = []model.SignatureField{}
	}

	util.ResponseSuccess(ctx, gin.H{
		"fields": fields,
	})
}

func (tc TemplateController) UpdateField(ctx *gin.Context) {
	var body FieldRequest

	identity, ok := tc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	field, err := tc.app.Workflow.UpdateField(ctx, identity, ctx.Param("fieldId"), body.toSpec())
	if err != nil {
		tc.respondError(ctx, "Failed to update field", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"field": field,
	})
}

func (tc TemplateController) RemoveField(ctx *gin.Context) {
	identity, ok := tc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	fieldId := ctx.Param("fieldId")
	if err := tc.app.Workflow.DeleteField(ctx, identity, fieldId); err != nil {
		tc.respondError(ctx, "Failed to remove field", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"fieldId": fieldId,
	})
}

func (tc TemplateController) AddRole(ctx *gin.Context) {
	type Request struct {
		Label string `json:"label" binding:"required,strNotEmpty,cmax=100"`
	}
	var body Request

	identity, ok := tc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	role, err := tc.app.Workflow.DefineRole(ctx, identity, ctx.Param("documentId"), body.Label)
	if err != nil {
		tc.respondError(ctx, "Failed to add role", err)
		return
	}

	util.ResponseSuccessWithStatus(ctx, http.StatusCreated, gin.H{
		"role": role,
	})
}

func (tc TemplateController) GetRoles(ctx *gin.Context) {
	identity, ok := tc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	roles, err := tc.app.Workflow.ListRoles(ctx, identity, ctx.Param("documentId"))
	if err != nil {
		tc.respondError(ctx, "Failed to get roles", err)
		return
	}

	if len(roles) == 0 {
		roles = []model.SignerRole{}
	}

	util.ResponseSuccess(ctx, gin.H{
		"roles": roles,
	})
}

func (tc TemplateController) RemoveRole(ctx *gin.Context) {
	identity, ok := tc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	roleId := ctx.Param("roleId")
	if err := tc.app.Workflow.DeleteRole(ctx, identity, ctx.Param("documentId"), roleId); err != nil {
		tc.respondError(ctx, "Failed to remove role", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"roleId": roleId,
	})
}
