package controller

import (
	"net/http"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/SeakMengs/AutoSign/internal/workflow"
	"github.com/gin-gonic/gin"
)

type ContractController struct {
	*baseController
}

const qrCodeSize = 256

type SignerRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
	RoleID string `json:"roleId"`
}

// party list problems are reported by the workflow as invalid party list, so signers carry no binding rules
type CreateContractRequest struct {
	DocumentID  string          `json:"documentId" binding:"required,strNotEmpty"`
	Title       string          `json:"title" binding:"required,strNotEmpty,cmax=200"`
	Description string          `json:"description" binding:"omitempty,max=2000"`
	Signers     []SignerRequest `json:"signers"`
}

func (cc ContractController) CreateContract(ctx *gin.Context) {
	var body CreateContractRequest

	identity, ok := cc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	signers := make([]workflow.SignerInput, 0, len(body.Signers))
	for _, s := range body.Signers {
		signers = append(signers, workflow.SignerInput{Email: s.Email, Name: s.Name, UserID: s.UserID, RoleID: s.RoleID})
	}

	contract, err := cc.app.Workflow.CreateContract(ctx, identity, workflow.CreateContractInput{
		DocumentID:  body.DocumentID,
		Title:       body.Title,
		Description: body.Description,
		Signers:     signers,
	})
	if err != nil {
		cc.respondError(ctx, "Failed to create contract", err)
		return
	}

	util.ResponseSuccessWithStatus(ctx, http.StatusCreated, gin.H{
		"contract": contract,
	})
}

type GetContractsRequest struct {
	PaginationRequest
	Status []constant.ContractStatus `json:"status" form:"status" binding:"omitempty,dive,oneof=pending completed"`
}

func (cc ContractController) GetContracts(ctx *gin.Context) {
	var params GetContractsRequest

	identity, ok := cc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindQuery(&params); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}
	params.normalize()

	contracts, total, err := cc.app.Workflow.ListContracts(ctx, identity, params.Status, params.Page, params.PageSize)
	if err != nil {
		cc.respondError(ctx, "Failed to get contract list", err)
		return
	}

	if len(contracts) == 0 {
		contracts = []workflow.ContractDetail{}
	}

	util.ResponseSuccess(ctx, gin.H{
		"total":     total,
		"contracts": contracts,
		"page":      params.Page,
		"pageSize":  params.PageSize,
		"totalPage": util.CalculateTotalPage(total, params.PageSize),
		"status":    params.Status,
	})
}

// GetContractById is reachable with a token or with the signer link (?signer=).
func (cc ContractController) GetContractById(ctx *gin.Context) {
	contract, err := cc.app.Workflow.GetContract(ctx, cc.getContractAccess(ctx), ctx.Param("contractId"))
	if err != nil {
		cc.respondError(ctx, "Failed to get contract", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"contract": contract,
	})
}

func (cc ContractController) GetSignerFields(ctx *gin.Context) {
	fields, err := cc.app.Workflow.SignerFields(ctx, cc.getContractAccess(ctx), ctx.Param("contractId"), ctx.Param("signerId"))
	if err != nil {
		cc.respondError(ctx, "Failed to get signer fields", err)
		return
	}

	if len(fields) == 0 {
		fields = []model.SignatureField{}
	}

	util.ResponseSuccess(ctx, gin.H{
		"fields": fields,
	})
}

func (cc ContractController) GetSigningLink(ctx *gin.Context) {
	identity, ok := cc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	link, err := cc.app.Workflow.SigningLink(ctx, identity, ctx.Param("contractId"), ctx.Param("signerId"))
	if err != nil {
		cc.respondError(ctx, "Failed to get signing link", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"link": link,
	})
}

// GetSigningLinkQRCode serves the signer's link as a png QR code for the owner to share.
func (cc ContractController) GetSigningLinkQRCode(ctx *gin.Context) {
	identity, ok := cc.getIdentityOrAbort(ctx)
	if !ok {
		return
	}

	link, err := cc.app.Workflow.SigningLink(ctx, identity, ctx.Param("contractId"), ctx.Param("signerId"))
	if err != nil {
		cc.respondError(ctx, "Failed to get signing link", err)
		return
	}

	png, err := util.GenerateQRCodePNG(link, qrCodeSize)
	if err != nil {
		cc.app.Logger.Errorf("Failed to generate QR code: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to generate QR code", util.GenerateErrorMessages(err, "qr"), nil)
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}

func (cc ContractController) GetAuditTrail(ctx *gin.Context) {
	trail, err := cc.app.Workflow.VerifyAuditTrail(ctx, cc.getContractAccess(ctx), ctx.Param("contractId"))
	if err != nil {
		cc.respondError(ctx, "Failed to get audit trail", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"audit": trail,
	})
}
