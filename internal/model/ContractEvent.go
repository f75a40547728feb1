package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"gorm.io/datatypes"
)

// ContractEvent is one link of a per-contract audit chain. Each event hashes its
// predecessor's hash, so rewriting any earlier event breaks every later one.
type ContractEvent struct {
	BaseModel
	ContractID string                  `gorm:"type:text;not null;uniqueIndex:idx_contract_events_contract_sequence" json:"contractId"`
	Sequence   int                     `gorm:"type:integer;not null;uniqueIndex:idx_contract_events_contract_sequence" json:"sequence"`
	Action     constant.ContractAction `gorm:"type:varchar(50);not null" json:"action"`
	ActorEmail string                  `gorm:"type:text" json:"actorEmail"`
	Metadata   datatypes.JSON          `json:"metadata"`
	PrevHash   string                  `gorm:"type:varchar(64)" json:"prevHash"`
	Hash       string                  `gorm:"type:varchar(64);not null" json:"hash"`
}

func (ce ContractEvent) TableName() string {
	return "contract_events"
}

func (ce ContractEvent) ComputeHash() string {
	parts := []string{
		ce.PrevHash,
		ce.ContractID,
		strconv.Itoa(ce.Sequence),
		string(ce.Action),
		ce.ActorEmail,
		canonicalJSON(ce.Metadata),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// jsonb reorders keys and strips whitespace, so hash a re-encoded form instead of the stored bytes.
func canonicalJSON(raw datatypes.JSON) string {
	if len(raw) == 0 {
		return ""
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}

	out, err := json.Marshal(v)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
