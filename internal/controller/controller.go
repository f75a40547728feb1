package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	appcontext "github.com/SeakMengs/AutoSign/internal/app_context"
	"github.com/SeakMengs/AutoSign/internal/auth"
	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/SeakMengs/AutoSign/internal/workflow"
	"github.com/gin-gonic/gin"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	Index     *IndexController
	Auth      *AuthController
	Document  *DocumentController
	Template  *TemplateController
	Contract  *ContractController
	Signature *SignatureController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		Index:     &IndexController{baseController: bc},
		Auth:      &AuthController{baseController: bc},
		Document:  &DocumentController{baseController: bc},
		Template:  &TemplateController{baseController: bc},
		Contract:  &ContractController{baseController: bc},
		Signature: &SignatureController{baseController: bc},
	}
}

func (b *baseController) getAuthUser(ctx *gin.Context) (*auth.JWTPayload, error) {
	user, exists := ctx.Get("user")
	if !exists {
		return nil, errors.New("user not found in context")
	}

	jsonUser, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	var authUser *auth.JWTPayload
	err = json.Unmarshal(jsonUser, &authUser)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return authUser, nil
}

// getIdentity converts the authenticated user into the identity every workflow call takes.
func (b *baseController) getIdentity(ctx *gin.Context) (workflow.Identity, error) {
	user, err := b.getAuthUser(ctx)
	if err != nil {
		return workflow.Identity{}, err
	}
	if user == nil || user.ID == "" {
		return workflow.Identity{}, errors.New("user not found in context")
	}

	return workflow.Identity{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// getIdentityOrAbort responds 401 when the request carries no user.
func (b *baseController) getIdentityOrAbort(ctx *gin.Context) (workflow.Identity, bool) {
	identity, err := b.getIdentity(ctx)
	if err != nil {
		b.app.Logger.Debugf("Failed to get auth user: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return workflow.Identity{}, false
	}
	return identity, true
}

// getContractAccess collects what a request may present to reach a contract: a token, a signer link, or both.
func (b *baseController) getContractAccess(ctx *gin.Context) workflow.ContractAccess {
	access := workflow.ContractAccess{SignerID: strings.TrimSpace(ctx.Query("signer"))}
	if access.SignerID == "" {
		access.SignerID = strings.TrimSpace(ctx.Param("signerId"))
	}

	if identity, err := b.getIdentity(ctx); err == nil {
		access.Caller = &identity
	}
	return access
}

var errorStatus = map[workflow.Kind]int{
	workflow.KindNotFound:              http.StatusNotFound,
	workflow.KindForbidden:             http.StatusForbidden,
	workflow.KindInvalidInput:          http.StatusBadRequest,
	workflow.KindAlreadySigned:         http.StatusConflict,
	workflow.KindConflict:              http.StatusConflict,
	workflow.KindInfrastructureFailure: http.StatusInternalServerError,
}

// respondError maps a workflow error onto its HTTP status and the usual failure body.
func (b *baseController) respondError(ctx *gin.Context, message string, err error) {
	kind := workflow.KindOf(err)
	status, ok := errorStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		b.app.Logger.Errorf("%s: %v", message, err)
		// internals stay in the log
		util.ResponseFailed(ctx, status, message, util.GenerateErrorMessages(errors.New(constant.REQUEST_UNSUCCESSFUL), "server"), nil)
		return
	}

	b.app.Logger.Debugf("%s: %v", message, err)
	util.ResponseFailed(ctx, status, message, util.GenerateErrorMessages(err), nil)
}

type PaginationRequest struct {
	Page     uint `json:"page" form:"page" binding:"omitempty"`
	PageSize uint `json:"pageSize" form:"pageSize" binding:"omitempty"`
}

func (p *PaginationRequest) normalize() {
	p.Page, p.PageSize = util.NormalizePage(p.Page, p.PageSize)
}
