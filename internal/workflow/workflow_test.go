package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SeakMengs/AutoSign/internal/config"
	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/database"
	filestorage "github.com/SeakMengs/AutoSign/internal/file_storage"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/notifier"
	"github.com/SeakMengs/AutoSign/internal/repository"
	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	owner    = Identity{ID: "owner-1", Email: "owner@example.com", Role: constant.UserRoleUser}
	admin    = Identity{ID: "admin-1", Email: "admin@example.com", Role: constant.UserRoleAdmin}
	stranger = Identity{ID: "stranger-1", Email: "stranger@example.com", Role: constant.UserRoleUser}
)

const testPageCount = 3

type fakeNotifier struct {
	mu          sync.Mutex
	invitations []notifier.Invitation
	err         error
}

func (n *fakeNotifier) SendInvitation(ctx context.Context, invitation notifier.Invitation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invitations = append(n.invitations, invitation)
	return n.err
}

type testEnv struct {
	svc      *Service
	repo     *repository.Repository
	notifier *fakeNotifier
	storage  *filestorage.MemoryStore
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	db, err := database.ConnectReturnGormDB(config.DatabaseConfig{DB_TYPE: "sqlite", DB_DATABASE: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	return newTestEnvOn(t, db, opts)
}

func newTestEnvOn(t *testing.T, db *gorm.DB, opts Options) *testEnv {
	t.Helper()

	require.NoError(t, database.AutoMigrate(db))

	if opts.FrontendURL == "" {
		opts.FrontendURL = "http://localhost:5174"
	}

	logger := util.NewLogger()
	repo := repository.NewRepository(db, logger)
	n := &fakeNotifier{}
	storage := filestorage.NewMemoryStore("autosign-test")

	svc := NewService(repo, storage, n, logger, opts)
	svc.countPages = func([]byte) (int, error) { return testPageCount, nil }

	return &testEnv{svc: svc, repo: repo, notifier: n, storage: storage}
}

func (e *testEnv) upload(t *testing.T, caller Identity) *model.Document {
	t.Helper()

	document, err := e.svc.UploadDocument(context.Background(), caller, UploadDocumentInput{
		FileName: "lease agreement.pdf",
		MimeType: "application/pdf",
		Content:  []byte("%PDF-1.7 test document"),
	})
	require.NoError(t, err)
	return document
}

func validBox() Box {
	return Box{PageNumber: 1, PositionX: 10, PositionY: 20, Width: 30, Height: 10}
}

func (e *testEnv) defineField(t *testing.T, documentId, email string) *model.SignatureField {
	t.Helper()

	field, err := e.svc.DefineField(context.Background(), owner, documentId, FieldSpec{
		Box:         validBox(),
		FieldType:   constant.FieldTypeSignature,
		SignerEmail: email,
		SignerName:  "Signer",
	})
	require.NoError(t, err)
	return field
}

func (e *testEnv) createContract(t *testing.T, documentId string, signers ...SignerInput) *model.Contract {
	t.Helper()

	contract, err := e.svc.CreateContract(context.Background(), owner, CreateContractInput{
		DocumentID: documentId,
		Title:      "Lease 2026",
		Signers:    signers,
	})
	require.NoError(t, err)
	return contract
}

func signerByEmail(t *testing.T, contract *model.Contract, email string) model.ContractSigner {
	t.Helper()

	for _, signer := range contract.Signers {
		if signer.Email == email {
			return signer
		}
	}
	t.Fatalf("signer %s not found on contract %s", email, contract.ID)
	return model.ContractSigner{}
}

func signatureInput(contractId, signerId string) SubmitSignatureInput {
	return SubmitSignatureInput{
		ContractID:       contractId,
		ContractSignerID: signerId,
		SignatureInput: SignatureInput{
			Box:           validBox(),
			SignatureData: "data:image/png;base64,iVBORw0KGgo=",
			IPAddress:     "127.0.0.1",
			UserAgent:     "go-test",
		},
	}
}

func requireKind(t *testing.T, err error, sentinel *Error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, sentinel), "expected %s, got %v (%s)", sentinel.Kind, err, KindOf(err))
}

var partiesAB = []SignerInput{
	{Email: "a@x.com", Name: "A"},
	{Email: "b@x.com", Name: "B"},
}

// failOnTable makes every insert into table fail from now on.
func failOnTable(t *testing.T, env *testEnv, table string) {
	t.Helper()

	err := env.repo.DB.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(db *gorm.DB) {
		if db.Statement.Table == table {
			db.AddError(errors.New("injected failure on " + table))
		}
	})
	require.NoError(t, err)
}

// recordQueries logs the table of every read from now on, suffixed with " FOR UPDATE" when it takes a row lock.
func recordQueries(t *testing.T, env *testEnv) func() []string {
	t.Helper()

	var (
		mu      sync.Mutex
		queries []string
	)
	err := env.repo.DB.Callback().Query().After("gorm:query").Register("test:record_queries", func(db *gorm.DB) {
		entry := db.Statement.Table
		if _, locked := db.Statement.Clauses["FOR"]; locked {
			entry += " FOR UPDATE"
		}
		mu.Lock()
		queries = append(queries, entry)
		mu.Unlock()
	})
	require.NoError(t, err)

	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), queries...)
	}
}

// requireLockedBefore asserts the document row is locked before contracts are counted.
func requireLockedBefore(t *testing.T, queries []string) {
	t.Helper()

	locked, counted := -1, -1
	for i, q := range queries {
		if q == "documents FOR UPDATE" && locked < 0 {
			locked = i
		}
		if q == "contracts" && counted < 0 {
			counted = i
		}
	}
	require.GreaterOrEqual(t, locked, 0, "document row never locked: %v", queries)
	require.GreaterOrEqual(t, counted, 0, "contracts never counted: %v", queries)
	require.Less(t, locked, counted, "contracts counted before the document lock: %v", queries)
}
