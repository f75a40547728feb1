package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

const (
	FROM_NAME = "AutoSign"
	MAX_RETRY = 3

	SIGNING_INVITATION_TEMPLATE = "signing_invitation.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, toUsername, toEmail string, data any) (int, error)
}

// Used by templates/signing_invitation.tmpl
type SigningInvitationData struct {
	RecipientName    string
	ContractTitle    string
	SigningLink      string
	ContractID       string
	ContractSignerID string
}

// RenderTemplate executes the "subject" and "body" blocks of an embedded template.
func RenderTemplate(templateFile string, data any) (string, string, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse mail template %s: %w", templateFile, err)
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return "", "", fmt.Errorf("failed to render subject of %s: %w", templateFile, err)
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return "", "", fmt.Errorf("failed to render body of %s: %w", templateFile, err)
	}

	return subject.String(), body.String(), nil
}
