package model

import (
	"testing"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestContractEventHashIgnoresJSONKeyOrder(t *testing.T) {
	a := ContractEvent{
		ContractID: "c1",
		Sequence:   2,
		Action:     constant.ContractActionSignatureSubmitted,
		ActorEmail: "alice@example.com",
		Metadata:   datatypes.JSON(`{"signerId":"s1","page":1}`),
		PrevHash:   "abc",
	}
	b := a
	b.Metadata = datatypes.JSON(`{"page": 1, "signerId": "s1"}`)

	assert.Equal(t, a.ComputeHash(), b.ComputeHash())
	assert.Len(t, a.ComputeHash(), 64)
}

func TestContractEventHashCoversEveryLink(t *testing.T) {
	base := ContractEvent{
		ContractID: "c1",
		Sequence:   1,
		Action:     constant.ContractActionCreated,
		ActorEmail: "owner@example.com",
	}
	h := base.ComputeHash()

	changed := base
	changed.PrevHash = "x"
	assert.NotEqual(t, h, changed.ComputeHash())

	changed = base
	changed.Sequence = 2
	assert.NotEqual(t, h, changed.ComputeHash())

	changed = base
	changed.ActorEmail = "mallory@example.com"
	assert.NotEqual(t, h, changed.ComputeHash())
}

func TestBaseModelKeepsPresetID(t *testing.T) {
	bm := BaseModel{ID: "preset"}
	assert.NoError(t, bm.BeforeCreate(nil))
	assert.Equal(t, "preset", bm.ID)

	empty := BaseModel{}
	assert.NoError(t, empty.BeforeCreate(nil))
	assert.Len(t, empty.ID, 36)
}
