package types

import "context"

type ConfigStore interface {
	GetType() string
	GetDatadir() string
	AddData(ctx context.Context, data Config) error
	GetData(ctx context.Context) (*Config, error)
	CleanData(ctx context.Context) error
}

// WithdrawalStore persists confirmed withdrawals and the one-shot session
// flag used to drive a single post-redirect notification.
type WithdrawalStore interface {
	AddWithdrawal(ctx context.Context, withdrawal Withdrawal) error
	GetAllWithdrawals(ctx context.Context) ([]Withdrawal, error)
	SetSessionFlag(ctx context.Context) error
	// ConsumeSessionFlag returns the flag and clears it, so a second call
	// always reports false until the flag is set again.
	ConsumeSessionFlag(ctx context.Context) (bool, error)
	Close()
}
