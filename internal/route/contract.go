package route

import (
	"github.com/SeakMengs/AutoSign/internal/controller"
	"github.com/SeakMengs/AutoSign/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Contracts(r *gin.RouterGroup, cc *controller.ContractController, sc *controller.SignatureController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/contracts")

	owner := v1.Group("")
	owner.Use(middleware.AuthMiddleware)
	{
		owner.POST("", cc.CreateContract)
		owner.GET("", cc.GetContracts)
		owner.GET("/:contractId/signers/:signerId/link", cc.GetSigningLink)
		owner.GET("/:contractId/signers/:signerId/qr", cc.GetSigningLinkQRCode)
	}

	// signers reach these through their link, with or without an account
	signer := v1.Group("")
	signer.Use(middleware.OptionalAuthMiddleware)
	{
		signer.GET("/:contractId", cc.GetContractById)
		signer.GET("/:contractId/signers/:signerId/fields", cc.GetSignerFields)
		signer.GET("/:contractId/audit", cc.GetAuditTrail)
		signer.POST("/:contractId/signatures", sc.SubmitSignature)
		signer.GET("/:contractId/signatures", sc.GetSignatures)
	}
}
