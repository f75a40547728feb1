package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContractProvisionsPendingSigners(t *testing.T) {
	env := newTestEnv(t, Options{FrontendURL: "https://sign.example.com"})
	document := env.upload(t, owner)

	contract := env.createContract(t, document.ID,
		SignerInput{Email: "  A@X.com ", Name: " A "},
		SignerInput{Email: "b@x.com", Name: "B", UserID: "user-b"},
	)

	assert.Equal(t, constant.ContractStatusPending, contract.Status)
	assert.Equal(t, owner.ID, contract.CreatedByID)
	assert.Nil(t, contract.CompletedAt)
	require.Len(t, contract.Signers, 2)

	a := signerByEmail(t, contract, "a@x.com")
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, constant.SignerStatusPending, a.Status)
	assert.Nil(t, a.SignedAt)
	assert.Nil(t, a.UserID)

	b := signerByEmail(t, contract, "b@x.com")
	require.NotNil(t, b.UserID)
	assert.Equal(t, "user-b", *b.UserID)

	require.Len(t, env.notifier.invitations, 2)
	for _, invitation := range env.notifier.invitations {
		assert.Equal(t, contract.ID, invitation.ContractID)
		assert.Equal(t, "Lease 2026", invitation.ContractTitle)
		assert.Contains(t, invitation.SigningLink, "https://sign.example.com/")
		assert.Contains(t, invitation.SigningLink, invitation.ContractSignerID)
	}
}

func TestCreateContractInvalidPartyList(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	document := env.upload(t, owner)

	tests := []struct {
		name    string
		signers []SignerInput
	}{
		{"empty", nil},
		{"duplicate email ignoring case", []SignerInput{{Email: "a@x.com", Name: "A"}, {Email: "A@X.COM", Name: "A2"}}},
		{"missing name", []SignerInput{{Email: "a@x.com"}}},
		{"missing email", []SignerInput{{Name: "A"}}},
		{"malformed email", []SignerInput{{Email: "not-an-email", Name: "A"}}},
		{"role on a document without roles", []SignerInput{{Email: "a@x.com", Name: "A", RoleID: "role-1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateContract(ctx, owner, CreateContractInput{DocumentID: document.ID, Title: "T", Signers: tt.signers})
			requireKind(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, ErrInvalidPartyList)
		})
	}

	var contracts int64
	require.NoError(t, env.repo.DB.Model(&model.Contract{}).Count(&contracts).Error)
	assert.Zero(t, contracts)
	assert.Empty(t, env.notifier.invitations)
}

func TestCreateContractValidation(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	document := env.upload(t, owner)

	_, err := env.svc.CreateContract(ctx, owner, CreateContractInput{DocumentID: document.ID, Title: "  ", Signers: partiesAB})
	requireKind(t, err, ErrInvalidInput)

	_, err = env.svc.CreateContract(ctx, owner, CreateContractInput{DocumentID: "missing", Title: "T", Signers: partiesAB})
	requireKind(t, err, ErrNotFound)

	_, err = env.svc.CreateContract(ctx, stranger, CreateContractInput{DocumentID: document.ID, Title: "T", Signers: partiesAB})
	requireKind(t, err, ErrForbidden)

	_, err = env.svc.CreateContract(ctx, admin, CreateContractInput{DocumentID: document.ID, Title: "T", Signers: partiesAB})
	require.NoError(t, err)
}

func TestCreateContractIsAtomic(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	document := env.upload(t, owner)

	failOnTable(t, env, "contract_signers")

	_, err := env.svc.CreateContract(ctx, owner, CreateContractInput{DocumentID: document.ID, Title: "T", Signers: partiesAB})
	requireKind(t, err, ErrInfrastructureFailure)

	var contracts, signers, events int64
	require.NoError(t, env.repo.DB.Model(&model.Contract{}).Count(&contracts).Error)
	require.NoError(t, env.repo.DB.Model(&model.ContractSigner{}).Count(&signers).Error)
	require.NoError(t, env.repo.DB.Model(&model.ContractEvent{}).Count(&events).Error)
	assert.Zero(t, contracts)
	assert.Zero(t, signers)
	assert.Zero(t, events)
	assert.Empty(t, env.notifier.invitations)
}

func TestCreateContractOnePerDocumentByDefault(t *testing.T) {
	ctx := context.Background()

	t.Run("default rejects a second contract", func(t *testing.T) {
		env := newTestEnv(t, Options{})
		document := env.upload(t, owner)
		env.createContract(t, document.ID, partiesAB...)

		_, err := env.svc.CreateContract(ctx, owner, CreateContractInput{DocumentID: document.ID, Title: "Again", Signers: partiesAB})
		requireKind(t, err, ErrConflict)
	})

	t.Run("allowed when configured", func(t *testing.T) {
		env := newTestEnv(t, Options{AllowMultipleContractsPerDocument: true})
		document := env.upload(t, owner)
		first := env.createContract(t, document.ID, partiesAB...)
		second := env.createContract(t, document.ID, partiesAB...)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestCreateContractSurvivesNotificationFailure(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.notifier.err = errors.New("smtp is down")
	document := env.upload(t, owner)

	contract := env.createContract(t, document.ID, partiesAB...)
	assert.NotEmpty(t, contract.ID)
	// every signer is still attempted
	assert.Len(t, env.notifier.invitations, 2)
}

type panickingNotifier struct {
	attempts int
}

func (n *panickingNotifier) SendInvitation(ctx context.Context, invitation notifier.Invitation) error {
	n.attempts++
	panic("mail client not initialised")
}

func TestCreateContractSurvivesNotifierPanic(t *testing.T) {
	env := newTestEnv(t, Options{})
	n := &panickingNotifier{}
	env.svc.notifier = n
	document := env.upload(t, owner)

	contract, err := env.svc.CreateContract(context.Background(), owner, CreateContractInput{
		DocumentID: document.ID,
		Title:      "Lease 2026",
		Signers:    partiesAB,
	})
	require.NoError(t, err)
	assert.Len(t, contract.Signers, 2)
	assert.Equal(t, 2, n.attempts)

	stored, err := env.svc.GetContract(context.Background(), ContractAccess{Caller: &owner}, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.ContractStatusPending, stored.Status)
}

func TestCreateContractWithoutNotifier(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.svc.notifier = nil
	document := env.upload(t, owner)

	contract := env.createContract(t, document.ID, partiesAB...)
	assert.Len(t, contract.Signers, 2)
}

func TestContractAccess(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	document := env.upload(t, owner)
	contract := env.createContract(t, document.ID, partiesAB...)
	a := signerByEmail(t, contract, "a@x.com")

	signerIdentity := Identity{ID: "user-a", Email: "A@x.com", Role: constant.UserRoleUser}

	tests := []struct {
		name   string
		access ContractAccess
		err    *Error
	}{
		{"owner", ContractAccess{Caller: &owner}, nil},
		{"admin", ContractAccess{Caller: &admin}, nil},
		{"signer by email", ContractAccess{Caller: &signerIdentity}, nil},
		{"signer by link", ContractAccess{SignerID: a.ID}, nil},
		{"stranger", ContractAccess{Caller: &stranger}, ErrForbidden},
		{"anonymous", ContractAccess{}, ErrForbidden},
		{"unknown link", ContractAccess{SignerID: "nope"}, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := env.svc.GetContract(ctx, tt.access, contract.ID)
			if tt.err != nil {
				requireKind(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, contract.ID, detail.ID)
			require.NotNil(t, detail.Document)
			assert.Equal(t, document.ID, detail.Document.ID)
		})
	}

	_, err := env.svc.GetContract(ctx, ContractAccess{Caller: &owner}, "missing")
	requireKind(t, err, ErrNotFound)
}

func TestListContracts(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	document := env.upload(t, owner)
	contract := env.createContract(t, document.ID, partiesAB...)

	contracts, total, err := env.svc.ListContracts(ctx, owner, nil, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, contracts, 1)
	assert.Equal(t, contract.ID, contracts[0].ID)
	assert.Equal(t, 2, contracts[0].SignerCount)

	signer := Identity{ID: "user-b", Email: "b@x.com"}
	contracts, _, err = env.svc.ListContracts(ctx, signer, []constant.ContractStatus{constant.ContractStatusPending}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, contracts, 1)

	contracts, _, err = env.svc.ListContracts(ctx, signer, []constant.ContractStatus{constant.ContractStatusCompleted}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, contracts)

	contracts, total, err = env.svc.ListContracts(ctx, stranger, nil, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, contracts)
}

func TestSigningLink(t *testing.T) {
	env := newTestEnv(t, Options{FrontendURL: "https://sign.example.com"})
	ctx := context.Background()
	document := env.upload(t, owner)
	contract := env.createContract(t, document.ID, partiesAB...)
	a := signerByEmail(t, contract, "a@x.com")

	link, err := env.svc.SigningLink(ctx, owner, contract.ID, a.ID)
	require.NoError(t, err)
	assert.Contains(t, link, contract.ID)
	assert.Contains(t, link, a.ID)

	_, err = env.svc.SigningLink(ctx, stranger, contract.ID, a.ID)
	requireKind(t, err, ErrForbidden)

	_, err = env.svc.SigningLink(ctx, owner, contract.ID, "nope")
	assert.ErrorIs(t, err, ErrSignerNotFound)
}

func TestListingsTreatPageZeroAsFirstPage(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	document := env.upload(t, owner)
	contract := env.createContract(t, document.ID, partiesAB...)

	contracts, total, err := env.svc.ListContracts(ctx, owner, nil, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, contracts, 1)
	assert.Equal(t, contract.ID, contracts[0].ID)

	documents, total, err := env.svc.ListDocuments(ctx, owner, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, documents, 1)
	assert.Equal(t, document.ID, documents[0].ID)
}
