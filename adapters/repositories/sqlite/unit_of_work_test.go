package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_RollbackOnError(t *testing.T) {
	db := openTestDatabase(t)
	uow := db.UnitOfWork()
	ctx := context.Background()

	wallet := mustCreateWallet(t, uow.walletRepo, "alice", "Cash", "100")
	boom := errors.New("boom")

	err := uow.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uow.GetWalletRepository().UpdateBalance(ctx, "alice", wallet.ID, decimal.NewFromInt(-40)); err != nil {
			return err
		}
		created := models.NewWallet("alice", "Bank", "", "PHP", models.WalletTypeBank, decimal.Zero)
		if err := uow.GetWalletRepository().Create(ctx, created); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := uow.walletRepo.FindByID(ctx, "alice", wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", found.Balance.StringFixed(2))

	_, err = uow.walletRepo.FindByName(ctx, "alice", "Bank")
	assert.ErrorIs(t, err, models.ErrWalletNotFound)
}

func TestUnitOfWork_NestedCallsJoin(t *testing.T) {
	db := openTestDatabase(t)
	uow := db.UnitOfWork()
	ctx := context.Background()

	wallet := mustCreateWallet(t, uow.walletRepo, "alice", "Cash", "100")

	err := uow.RunInTransaction(ctx, func(outer context.Context) error {
		if err := uow.RunInTransaction(outer, func(inner context.Context) error {
			return uow.GetWalletRepository().UpdateBalance(inner, "alice", wallet.ID, decimal.NewFromInt(25))
		}); err != nil {
			return err
		}

		// the outer transaction sees the inner write
		found, err := uow.GetWalletRepository().FindByID(outer, "alice", wallet.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, "125.00", found.Balance.StringFixed(2))
		return errors.New("abort")
	})
	require.Error(t, err)

	found, err := uow.walletRepo.FindByID(ctx, "alice", wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", found.Balance.StringFixed(2))
}

func TestDSN(t *testing.T) {
	dsn := DSN("/tmp/ledger.db", Options{BusyTimeoutMS: 250})
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_busy_timeout=250")
	assert.Contains(t, dsn, "_txlock=immediate")

	assert.Contains(t, DSN("x.db", Options{}), "_busy_timeout=5000")
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := t.TempDir() + "/nested/dir/ledger.db"

	first, err := Open(path, Options{})
	require.NoError(t, err)
	mustCreateWallet(t, first.UnitOfWork().walletRepo, "alice", "Cash", "1")
	require.NoError(t, first.Close())

	second, err := Open(path, Options{})
	require.NoError(t, err)
	defer second.Close()

	count, err := second.UnitOfWork().walletRepo.Count(context.Background(), "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
