package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/hideyourcash/go-sdk/types"
)

const (
	withdrawalStoreDir = "withdrawals"

	// sessionFlagKey names the single boolean session flag driving the
	// one-time post-withdrawal notification.
	sessionFlagKey = "hyc-transaction"
)

type sessionFlag struct {
	Set bool
}

type withdrawalStore struct {
	db   *badgerhold.Store
	lock *sync.Mutex
}

// NewWithdrawalStore opens a badger-backed withdrawal history store. An
// empty dir yields an in-memory database.
func NewWithdrawalStore(
	dir string, logger badger.Logger,
) (types.WithdrawalStore, error) {
	if len(dir) > 0 {
		dir = filepath.Join(dir, withdrawalStoreDir)
	}
	db, err := createDB(dir, logger)
	if err != nil {
		return nil, err
	}

	return &withdrawalStore{
		db:   db,
		lock: &sync.Mutex{},
	}, nil
}

func (s *withdrawalStore) AddWithdrawal(
	_ context.Context, withdrawal types.Withdrawal,
) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.db.Insert(withdrawal.NullifierHash, &withdrawal); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return nil
		}
		return err
	}
	return nil
}

func (s *withdrawalStore) GetAllWithdrawals(
	_ context.Context,
) ([]types.Withdrawal, error) {
	var withdrawals []types.Withdrawal
	err := s.db.Find(&withdrawals, nil)

	sort.Slice(withdrawals, func(i, j int) bool {
		return withdrawals[i].CreatedAt.After(withdrawals[j].CreatedAt)
	})

	return withdrawals, err
}

func (s *withdrawalStore) SetSessionFlag(_ context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.db.Upsert(sessionFlagKey, &sessionFlag{Set: true})
}

func (s *withdrawalStore) ConsumeSessionFlag(
	_ context.Context,
) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	flag := sessionFlag{}
	if err := s.db.Get(sessionFlagKey, &flag); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := s.db.Delete(sessionFlagKey, &sessionFlag{}); err != nil {
		return false, err
	}
	return flag.Set, nil
}

func (s *withdrawalStore) Close() {
	if err := s.db.Close(); err != nil {
		log.Debugf("error on closing withdrawals db: %s", err)
	}
}

func createDB(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
