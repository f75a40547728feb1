package controller

import (
	"net/http"

	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/SeakMengs/AutoSign/internal/workflow"
	"github.com/gin-gonic/gin"
)

type SignatureController struct {
	*baseController
}

type SubmitSignatureRequest struct {
	ContractSignerID string  `json:"contractSignerId" binding:"required,strNotEmpty"`
	PageNumber       int     `json:"pageNumber" binding:"required,gte=1"`
	PositionX        float64 `json:"positionX" binding:"gte=0,lte=100"`
	PositionY        float64 `json:"positionY" binding:"gte=0,lte=100"`
	Width            float64 `json:"width" binding:"required,gt=0,lte=100"`
	Height           float64 `json:"height" binding:"required,gt=0,lte=100"`
	SignatureData    string  `json:"signatureData" binding:"required,strNotEmpty"`
}

// SubmitSignature is the signer's action. The signer id in the body is the capability the signing link carries.
func (sc SignatureController) SubmitSignature(ctx *gin.Context) {
	var body SubmitSignatureRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	result, err := sc.app.Workflow.SubmitSignature(ctx, workflow.SubmitSignatureInput{
		ContractID:       ctx.Param("contractId"),
		ContractSignerID: body.ContractSignerID,
		SignatureInput: workflow.SignatureInput{
			Box: workflow.Box{
				PageNumber: body.PageNumber,
				PositionX:  body.PositionX,
				PositionY:  body.PositionY,
				Width:      body.Width,
				Height:     body.Height,
			},
			SignatureData: body.SignatureData,
			IPAddress:     ctx.ClientIP(),
			UserAgent:     ctx.Request.UserAgent(),
		},
	})
	if err != nil {
		sc.respondError(ctx, "Failed to submit signature", err)
		return
	}

	util.ResponseSuccessWithStatus(ctx, http.StatusCreated, result)
}

func (sc SignatureController) GetSignatures(ctx *gin.Context) {
	signatures, err := sc.app.Workflow.ListSignatures(ctx, sc.getContractAccess(ctx), ctx.Param("contractId"))
	if err != nil {
		sc.respondError(ctx, "Failed to get signatures", err)
		return
	}

	if len(signatures) == 0 {
		signatures = []model.Signature{}
	}

	util.ResponseSuccess(ctx, gin.H{
		"signatures": signatures,
	})
}
