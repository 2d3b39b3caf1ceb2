package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicket_Hash(t *testing.T) {
	base := Ticket{
		ID:           "t-1",
		Title:        "Printer on fire",
		Content:      "Smoke everywhere",
		CreationTime: 1514764800000,
		UserEmail:    "ops@example.com",
		Labels:       []string{"urgent", "hardware"},
	}

	t.Run("identical tickets produce identical hashes", func(t *testing.T) {
		a := base
		b := base
		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("label order is deterministic", func(t *testing.T) {
		a := base
		a.Labels = []string{"urgent", "hardware"}
		b := base
		b.Labels = []string{"hardware", "urgent"}
		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("email case is ignored", func(t *testing.T) {
		a := base
		b := base
		b.UserEmail = "OPS@Example.com"
		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("different content produces different hashes", func(t *testing.T) {
		a := base
		b := base
		b.Title = "Printer fine"
		c := base
		c.CreationTime++
		assert.NotEqual(t, a.Hash(), b.Hash())
		assert.NotEqual(t, a.Hash(), c.Hash())
	})

	t.Run("empty labels vs nil labels", func(t *testing.T) {
		a := base
		a.Labels = []string{}
		b := base
		b.Labels = nil
		assert.Equal(t, a.Hash(), b.Hash())
	})
}

func TestHashPage(t *testing.T) {
	a := Ticket{ID: "a", Title: "A"}
	b := Ticket{ID: "b", Title: "B"}

	assert.Equal(t, HashPage([]Ticket{a, b}), HashPage([]Ticket{a, b}))
	assert.NotEqual(t, HashPage([]Ticket{a, b}), HashPage([]Ticket{b, a}))
	assert.NotEqual(t, HashPage(nil), HashPage([]Ticket{a}))
}

func TestDeriveID(t *testing.T) {
	tk := Ticket{Title: "VPN drops", Content: "every hour", CreationTime: 42, UserEmail: "a@b.c", Labels: []string{"Ops", "Bug"}}

	id := DeriveID(tk)
	assert.Len(t, id, len("tk-")+16)
	assert.Equal(t, "tk-", id[:3])

	withID := tk
	withID.ID = "ignored"
	assert.Equal(t, id, DeriveID(withID), "existing id is not part of the hash")

	reordered := tk
	reordered.Labels = []string{"Bug", "Ops"}
	assert.Equal(t, id, DeriveID(reordered))

	other := tk
	other.Title = "VPN drops again"
	assert.NotEqual(t, id, DeriveID(other))
}
