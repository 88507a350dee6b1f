package cartstore

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanf244/mars4/internal/pos"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "drafts.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestHoldAndList(t *testing.T) {
	s := openTestStore(t)

	cart := pos.NewCart()
	cart.AddItem("SCR-IP13-A", 2)
	cart.AddItem("BAT-IP13", 1)
	cart.SetTechnicianPrice(true, nil)

	draft, err := s.Hold(cart, "walk-in customer")
	require.NoError(t, err)
	assert.Len(t, draft.ID, 26, "draft IDs are ULIDs")
	assert.Equal(t, "walk-in customer", draft.Label)

	drafts, err := s.List()
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)
	assert.True(t, drafts[0].TechnicianPrice)
	assert.Len(t, drafts[0].Items, 2)
}

func TestHoldEmptyCart(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Hold(pos.NewCart(), "")
	assert.ErrorIs(t, err, pos.ErrEmptyCart)
}

func TestResumeRestoresCartAndConsumesDraft(t *testing.T) {
	s := openTestStore(t)

	cart := pos.NewCart()
	cart.AddItem("SCR-IP13-A", 3)
	cart.SetTechnicianPrice(true, nil)

	draft, err := s.Hold(cart, "")
	require.NoError(t, err)

	resumed, err := s.Resume(draft.ID)
	require.NoError(t, err)

	items := resumed.Items()
	require.Len(t, items, 1)
	assert.Equal(t, pos.CartItem{SKU: "SCR-IP13-A", Quantity: 3}, items[0])
	assert.True(t, resumed.TechnicianPrice())

	// Resuming consumes the draft
	drafts, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, drafts)

	_, err = s.Resume(draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	cart := pos.NewCart()
	cart.AddItem("SKU-1", 1)
	draft, err := s.Hold(cart, "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(draft.ID))

	drafts, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, drafts)

	assert.ErrorIs(t, s.Delete(draft.ID), ErrDraftNotFound)
	assert.ErrorIs(t, s.Delete("missing"), ErrDraftNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)

	for _, sku := range []string{"SKU-1", "SKU-2", "SKU-3"} {
		cart := pos.NewCart()
		cart.AddItem(sku, 1)
		_, err := s.Hold(cart, sku)
		require.NoError(t, err)
	}

	drafts, err := s.List()
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	// ULIDs are monotonic within a process; newest first means descending
	assert.True(t, drafts[0].ID > drafts[1].ID)
	assert.True(t, drafts[1].ID > drafts[2].ID)
}
