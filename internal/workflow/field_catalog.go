package workflow

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"gorm.io/gorm"
)

// FieldSpec describes a field placement. The intended signer is a template role, or an email/name pair.
type FieldSpec struct {
	Box
	FieldType   constant.FieldType
	IsRequired  *bool
	Label       string
	RoleID      string
	SignerEmail string
	SignerName  string
}

// validate checks everything that does not need the database.
func (fs FieldSpec) validate() error {
	if !fs.FieldType.IsValid() {
		return invalidInput("fieldType", "field type must be one of signature, date, text, initials")
	}
	if err := fs.Box.validate(0); err != nil {
		return err
	}
	if len(fs.Label) > 200 {
		return invalidInput("label", "label must be at most 200 characters")
	}

	email := normalizeEmail(fs.SignerEmail)
	if email == "" {
		if strings.TrimSpace(fs.RoleID) == "" {
			return invalidInput("signerEmail", "a field needs a roleId or a signerEmail")
		}
		return nil
	}
	// a bare address only, so it matches the signer's stored email
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return invalidInput("signerEmail", "invalid signer email %q", fs.SignerEmail)
	}

	return nil
}

func (s *Service) applyFieldSpec(ctx context.Context, tx *gorm.DB, document *model.Document, field *model.SignatureField, spec FieldSpec) error {
	if err := spec.Box.validate(document.PageCount); err != nil {
		return err
	}

	field.RoleID = nil
	if roleId := strings.TrimSpace(spec.RoleID); roleId != "" {
		role, err := s.repo.SignerRole.GetById(ctx, tx, roleId)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fromRepo("get role", err, "role not found")
		}
		if err != nil || role.DocumentID != document.ID {
			return invalidInput("roleId", "role does not belong to this document")
		}
		field.RoleID = &role.ID
	}

	field.BaseBoxModel = spec.Box.toModel()
	field.DocumentID = document.ID
	field.FieldType = spec.FieldType
	field.Label = strings.TrimSpace(spec.Label)
	field.SignerEmail = normalizeEmail(spec.SignerEmail)
	field.SignerName = strings.TrimSpace(spec.SignerName)
	field.IsRequired = true
	if spec.IsRequired != nil {
		field.IsRequired = *spec.IsRequired
	}

	return nil
}

func (s *Service) DefineField(ctx context.Context, caller Identity, documentId string, spec FieldSpec) (*model.SignatureField, error) {
	if err := s.requireIdentity(caller); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	field := &model.SignatureField{}
	err := s.repo.WithTx(nil, func(tx *gorm.DB) error {
		document, err := s.authorizeDocument(ctx, tx, caller, documentId, constant.FieldAdd)
		if err != nil {
			return err
		}
		if err := s.ensureNotContracted(ctx, tx, document.ID); err != nil {
			return err
		}
		if err := s.applyFieldSpec(ctx, tx, document, field, spec); err != nil {
			return err
		}

		if _, err := s.repo.SignatureField.Create(ctx, tx, field); err != nil {
			return fromRepo("create field", err, "document not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return field, nil
}

// ListFields returns the document's fields ordered by page, then y, then x.
func (s *Service) ListFields(ctx context.Context, caller Identity, documentId string) ([]model.SignatureField, error) {
	if _, err := s.authorizeDocument(ctx, nil, caller, documentId, constant.FieldRead); err != nil {
		return nil, err
	}

	fields, err := s.repo.SignatureField.ListByDocument(ctx, nil, documentId)
	if err != nil {
		return nil, fromRepo("list fields", err, "document not found")
	}
	return fields, nil
}

// UpdateField replaces the placement of a field. Concurrent edits are last write wins.
func (s *Service) UpdateField(ctx context.Context, caller Identity, fieldId string, spec FieldSpec) (*model.SignatureField, error) {
	if err := s.requireIdentity(caller); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	var field *model.SignatureField
	err := s.repo.WithTx(nil, func(tx *gorm.DB) error {
		var err error
		field, err = s.repo.SignatureField.GetById(ctx, tx, fieldId)
		if err != nil {
			return fromRepo("get field", err, "field not found")
		}

		document, err := s.authorizeDocument(ctx, tx, caller, field.DocumentID, constant.FieldUpdate)
		if err != nil {
			return err
		}
		if err := s.ensureNotContracted(ctx, tx, document.ID); err != nil {
			return err
		}
		if err := s.applyFieldSpec(ctx, tx, document, field, spec); err != nil {
			return err
		}

		if _, err := s.repo.SignatureField.Update(ctx, tx, field); err != nil {
			return fromRepo("update field", err, "field not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return field, nil
}

func (s *Service) DeleteField(ctx context.Context, caller Identity, fieldId string) error {
	if err := s.requireIdentity(caller); err != nil {
		return err
	}

	return s.repo.WithTx(nil, func(tx *gorm.DB) error {
		field, err := s.repo.SignatureField.GetById(ctx, tx, fieldId)
		if err != nil {
			return fromRepo("get field", err, "field not found")
		}

		if _, err := s.authorizeDocument(ctx, tx, caller, field.DocumentID, constant.FieldRemove); err != nil {
			return err
		}
		if err := s.ensureNotContracted(ctx, tx, field.DocumentID); err != nil {
			return err
		}

		if err := s.repo.SignatureField.Delete(ctx, tx, field.ID); err != nil {
			return fromRepo("delete field", err, "field not found")
		}
		return nil
	})
}

// DefineRole declares a named signer slot on the document template.
func (s *Service) DefineRole(ctx context.Context, caller Identity, documentId, label string) (*model.SignerRole, error) {
	if err := s.requireIdentity(caller); err != nil {
		return nil, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return nil, invalidInput("label", "label is required")
	}
	if len(label) > 100 {
		return nil, invalidInput("label", "label must be at most 100 characters")
	}

	role := &model.SignerRole{DocumentID: documentId, Label: label}
	err := s.repo.WithTx(nil, func(tx *gorm.DB) error {
		if _, err := s.authorizeDocument(ctx, tx, caller, documentId, constant.RoleAdd); err != nil {
			return err
		}
		if err := s.ensureNotContracted(ctx, tx, documentId); err != nil {
			return err
		}

		order, err := s.repo.SignerRole.NextSortOrder(ctx, tx, documentId)
		if err != nil {
			return fromRepo("define role", err, "document not found")
		}
		role.SortOrder = order

		if _, err := s.repo.SignerRole.Create(ctx, tx, role); err != nil {
			if isUniqueViolation(err) {
				return invalidInput("label", "role %q already exists on this document", label)
			}
			return fromRepo("define role", err, "document not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return role, nil
}

func (s *Service) ListRoles(ctx context.Context, caller Identity, documentId string) ([]model.SignerRole, error) {
	if _, err := s.authorizeDocument(ctx, nil, caller, documentId, constant.FieldRead); err != nil {
		return nil, err
	}

	roles, err := s.repo.SignerRole.ListByDocument(ctx, nil, documentId)
	if err != nil {
		return nil, fromRepo("list roles", err, "document not found")
	}
	return roles, nil
}

// DeleteRole removes an unused role; fields still pointing at it must be moved or deleted first.
func (s *Service) DeleteRole(ctx context.Context, caller Identity, documentId, roleId string) error {
	if err := s.requireIdentity(caller); err != nil {
		return err
	}

	return s.repo.WithTx(nil, func(tx *gorm.DB) error {
		if _, err := s.authorizeDocument(ctx, tx, caller, documentId, constant.RoleRemove); err != nil {
			return err
		}

		role, err := s.repo.SignerRole.GetById(ctx, tx, roleId)
		if err != nil {
			return fromRepo("get role", err, "role not found")
		}
		if role.DocumentID != documentId {
			return notFound("role not found")
		}

		if err := s.ensureNotContracted(ctx, tx, documentId); err != nil {
			return err
		}

		used, err := s.repo.SignatureField.CountByRole(ctx, tx, roleId)
		if err != nil {
			return fromRepo("count fields", err, "role not found")
		}
		if used > 0 {
			return conflict("role is still assigned to fields")
		}

		if err := s.repo.SignerRole.Delete(ctx, tx, roleId); err != nil {
			return fromRepo("delete role", err, "role not found")
		}
		return nil
	})
}
