package hycsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hideyourcash/go-sdk/client"
	"github.com/hideyourcash/go-sdk/prover"
	"github.com/hideyourcash/go-sdk/relayer"
	"github.com/hideyourcash/go-sdk/score"
	kvstore "github.com/hideyourcash/go-sdk/store/kv"
	"github.com/hideyourcash/go-sdk/ticket"
	"github.com/hideyourcash/go-sdk/types"
	"github.com/hideyourcash/go-sdk/views"
	"github.com/hideyourcash/go-sdk/wallet"
	singlekeywallet "github.com/hideyourcash/go-sdk/wallet/singlekey"
	walletstore "github.com/hideyourcash/go-sdk/wallet/singlekey/store"
	filestore "github.com/hideyourcash/go-sdk/wallet/singlekey/store/file"
	inmemorystore "github.com/hideyourcash/go-sdk/wallet/singlekey/store/inmemory"
)

// Submitter routes a withdrawal payload through a relayer.
type Submitter interface {
	Relay(
		ctx context.Context, relayerURL, quoteToken string,
		payload types.ProofPayload,
	) (string, error)
}

type hycClient struct {
	*types.Config

	store      types.ConfigStore
	node       client.NodeClient
	views      *views.Views
	codec      *ticket.Codec
	scorer     *score.Scorer
	negotiator *relayer.Negotiator
	submitter  Submitter
	prover     prover.Prover
	wallet     wallet.WalletService
	history    types.WithdrawalStore

	now func() time.Time

	// test seams, applied before Init/Load wires the components
	nodeOverride    client.NodeClient
	quotesOverride  relayer.QuoteService
	historyOverride types.WithdrawalStore
	sourceOverride  score.PopulationSource
	viewsOpts       []views.Option

	attempt *withdrawalAttempt
}

type Option func(*hycClient)

func WithProver(p prover.Prover) Option {
	return func(c *hycClient) { c.prover = p }
}

func WithNodeClient(node client.NodeClient) Option {
	return func(c *hycClient) { c.nodeOverride = node }
}

func WithQuoteService(quotes relayer.QuoteService) Option {
	return func(c *hycClient) { c.quotesOverride = quotes }
}

func WithSubmitter(submitter Submitter) Option {
	return func(c *hycClient) { c.submitter = submitter }
}

func WithWithdrawalStore(history types.WithdrawalStore) Option {
	return func(c *hycClient) { c.historyOverride = history }
}

func WithPopulationSource(source score.PopulationSource) Option {
	return func(c *hycClient) { c.sourceOverride = source }
}

func WithClock(now func() time.Time) Option {
	return func(c *hycClient) { c.now = now }
}

// WithRelayerDirectoryURL overrides the relayer directory endpoint for a
// network, e.g. to point a local deployment at its own directory.
func WithRelayerDirectoryURL(network, baseURL string) Option {
	return func(c *hycClient) {
		c.viewsOpts = append(
			c.viewsOpts, views.WithRelayerDirectoryURL(network, baseURL),
		)
	}
}

// New returns an uninitialized client bound to the given config store.
// Call Init to connect it to a network, or Load when the store already
// holds config data.
func New(configStore types.ConfigStore, opts ...Option) (HycClient, error) {
	data, err := configStore.GetData(context.Background())
	if err != nil {
		return nil, err
	}
	if data != nil {
		return nil, ErrAlreadyInitialized
	}

	c := newClient(configStore, opts...)
	return c, nil
}

// Load restores a client from previously initialized config data.
func Load(configStore types.ConfigStore, opts ...Option) (HycClient, error) {
	data, err := configStore.GetData(context.Background())
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotInitialized
	}

	c := newClient(configStore, opts...)
	if err := c.initComponents(*data); err != nil {
		return nil, err
	}
	return c, nil
}

func newClient(configStore types.ConfigStore, opts ...Option) *hycClient {
	c := &hycClient{
		store:   configStore,
		now:     time.Now,
		attempt: newAttempt(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *hycClient) Init(ctx context.Context, args InitArgs) error {
	if err := args.validate(); err != nil {
		return fmt.Errorf("invalid args: %s", err)
	}

	relayerNetwork := args.RelayerNetwork
	if len(relayerNetwork) <= 0 {
		relayerNetwork = args.Network
	}

	cfg := types.Config{
		Network:          args.Network,
		NodeURL:          args.NodeURL,
		RegistryContract: args.RegistryContract,
		RelayerNetwork:   relayerNetwork,
		IndexerURL:       args.IndexerURL,
		WalletType:       args.WalletType,
		ClientType:       args.ClientType,
		StoreType:        c.store.GetType(),
		Datadir:          c.store.GetDatadir(),
	}

	if err := c.initComponents(cfg); err != nil {
		return err
	}

	if _, err := c.wallet.Create(ctx, args.Password, args.Seed); err != nil {
		return err
	}

	if err := c.store.AddData(ctx, cfg); err != nil {
		return err
	}

	log.Debugf("client initialized for network %s", cfg.Network)
	return nil
}

func (c *hycClient) initComponents(cfg types.Config) error {
	node := c.nodeOverride
	if node == nil {
		factory, ok := supportedClients[cfg.ClientType]
		if !ok {
			return fmt.Errorf("unsupported client type '%s'", cfg.ClientType)
		}
		n, err := factory(cfg.NodeURL)
		if err != nil {
			return err
		}
		node = n
	}

	viewsSvc := views.NewViews(node, cfg.RegistryContract, c.viewsOpts...)

	quotes := c.quotesOverride
	if quotes == nil {
		service := relayer.NewService()
		quotes = service
		if c.submitter == nil {
			c.submitter = service
		}
	}

	history := c.historyOverride
	if history == nil {
		h, err := kvstore.NewWithdrawalStore(cfg.Datadir, nil)
		if err != nil {
			return err
		}
		history = h
	}

	if c.wallet == nil {
		walletSvc, err := newWalletService(cfg)
		if err != nil {
			return err
		}
		c.wallet = walletSvc
	}

	source := c.sourceOverride
	if source == nil && len(cfg.IndexerURL) > 0 {
		source = score.NewIndexerSource(cfg.IndexerURL)
	}
	if source != nil {
		c.scorer = score.NewScorer(source)
	}

	c.Config = &cfg
	c.node = node
	c.views = viewsSvc
	c.codec = ticket.NewCodec(viewsSvc)
	c.negotiator = relayer.NewNegotiator(
		viewsSvc, quotes, cfg.RelayerNetwork, relayer.WithClock(c.now),
	)
	c.history = history
	return nil
}

func newWalletService(cfg types.Config) (wallet.WalletService, error) {
	var store walletstore.WalletStore
	switch cfg.StoreType {
	case types.FileStore:
		s, err := filestore.NewWalletStore(cfg.Datadir)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		store = inmemorystore.NewWalletStore()
	}
	return singlekeywallet.NewWallet(store)
}

func (c *hycClient) GetConfigData(_ context.Context) (*types.Config, error) {
	if c.Config == nil {
		return nil, ErrNotInitialized
	}
	return c.Config, nil
}

func (c *hycClient) Unlock(ctx context.Context, password string) error {
	if c.wallet == nil {
		return ErrNotInitialized
	}
	return c.wallet.Unlock(ctx, password)
}

func (c *hycClient) Lock(ctx context.Context, password string) error {
	if c.wallet == nil {
		return ErrNotInitialized
	}
	return c.wallet.Lock(ctx, password)
}

func (c *hycClient) IsLocked(_ context.Context) bool {
	if c.wallet == nil {
		return true
	}
	return c.wallet.IsLocked()
}

func (c *hycClient) Balance(
	ctx context.Context, tokenContract string,
) (string, error) {
	if err := c.safeCheck(); err != nil {
		return "", err
	}

	accountId, err := c.wallet.Identity(ctx)
	if err != nil {
		return "", err
	}
	return c.views.AccountBalance(ctx, tokenContract, accountId)
}

// ApplyAllowlist submits an allowlist application for the current signer
// to the registry contract.
func (c *hycClient) ApplyAllowlist(ctx context.Context) (string, error) {
	if err := c.safeCheck(); err != nil {
		return "", err
	}

	accountId, err := c.wallet.Identity(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"contract": c.RegistryContract,
		"method":   "allowlist",
		"args":     map[string]string{"account_id": accountId},
	})
	if err != nil {
		return "", err
	}
	return c.wallet.SignAndSubmit(ctx, c.node, payload)
}

func (c *hycClient) GetWithdrawalHistory(
	ctx context.Context,
) ([]types.Withdrawal, error) {
	if err := c.safeCheck(); err != nil {
		return nil, err
	}
	return c.history.GetAllWithdrawals(ctx)
}

func (c *hycClient) ConsumeSessionFlag(ctx context.Context) (bool, error) {
	if err := c.safeCheck(); err != nil {
		return false, err
	}
	return c.history.ConsumeSessionFlag(ctx)
}

func (c *hycClient) Stop() error {
	if err := c.safeCheck(); err != nil {
		return err
	}

	c.Reset(context.Background())
	c.history.Close()
	c.node.Close()
	return nil
}

func (c *hycClient) safeCheck() error {
	if c.Config == nil {
		return ErrNotInitialized
	}
	return nil
}
