package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hideyourcash/go-sdk/types"
)

func newTestStore(t *testing.T) types.WithdrawalStore {
	store, err := NewWithdrawalStore("", nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestAddAndListWithdrawals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, hash := range []string{"aa", "bb", "cc"} {
		require.NoError(t, store.AddWithdrawal(ctx, types.Withdrawal{
			NullifierHash: hash,
			PoolContract:  "pool.near",
			Recipient:     "alice.near",
			Txid:          hash + "-tx",
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}))
	}

	withdrawals, err := store.GetAllWithdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, withdrawals, 3)
	// newest first
	require.Equal(t, "cc", withdrawals[0].NullifierHash)
	require.Equal(t, "aa", withdrawals[2].NullifierHash)
}

func TestAddWithdrawalIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := types.Withdrawal{
		NullifierHash: "aa",
		Txid:          "first-tx",
		CreatedAt:     time.Now(),
	}
	require.NoError(t, store.AddWithdrawal(ctx, record))

	record.Txid = "second-tx"
	require.NoError(t, store.AddWithdrawal(ctx, record))

	withdrawals, err := store.GetAllWithdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	require.Equal(t, "first-tx", withdrawals[0].Txid)
}

func TestSessionFlag(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	set, err := store.ConsumeSessionFlag(ctx)
	require.NoError(t, err)
	require.False(t, set)

	require.NoError(t, store.SetSessionFlag(ctx))

	set, err = store.ConsumeSessionFlag(ctx)
	require.NoError(t, err)
	require.True(t, set)

	// consuming clears the flag
	set, err = store.ConsumeSessionFlag(ctx)
	require.NoError(t, err)
	require.False(t, set)
}

func TestFileBackedStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewWithdrawalStore(dir, nil)
	require.NoError(t, err)
	require.NoError(t, store.AddWithdrawal(ctx, types.Withdrawal{
		NullifierHash: "aa",
		Txid:          "tx-1",
		CreatedAt:     time.Now(),
	}))
	store.Close()

	reopened, err := NewWithdrawalStore(dir, nil)
	require.NoError(t, err)
	defer reopened.Close()

	withdrawals, err := reopened.GetAllWithdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	require.Equal(t, "tx-1", withdrawals[0].Txid)
}
