package registry

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// Config describes how to reach the deployed ContributionRegistry.
type Config struct {
	RPCURL      string
	Address     string
	ChainID     int64
	OperatorKey string
	Logger      zerolog.Logger
}

// Client talks to the ContributionRegistry contract over JSON-RPC. Reads go
// through eth_call; writes are signed locally with the operator key and
// watched until mined.
type Client struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	backend  *ethclient.Client
	signer   *bind.TransactOpts
	operator common.Address
	logger   zerolog.Logger

	// pending maps tx hash -> *ethtypes.Transaction so Watch can resolve a
	// neutral TxHandle back to the transaction WaitMined needs.
	pending sync.Map
}

// rawScore and rawContribution mirror the ABI tuple layout for decoding.
type rawScore struct {
	Technical  uint16
	Community  uint16
	Governance uint16
	Overall    uint16
}

type rawContribution struct {
	Id            *big.Int
	Submitter     common.Address
	Title         string
	MetadataURI   string
	AiReport      string
	AiVerdict     uint8
	Score         rawScore
	SubmittedAt   *big.Int
	FinalVerdict  uint8
	FinalApprover common.Address
	FinalizedAt   *big.Int
	ProposalId    *big.Int
	Notes         string
}

// Dial connects to the chain RPC endpoint and binds the registry contract.
func Dial(cfg Config) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("chain rpc url must be provided")
	}
	if !common.IsHexAddress(cfg.Address) {
		return nil, fmt.Errorf("invalid registry address %q", cfg.Address)
	}

	parsed, err := abi.JSON(strings.NewReader(ContributionRegistryABI))
	if err != nil {
		return nil, fmt.Errorf("parse registry abi: %w", err)
	}

	backend, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial chain rpc: %w", err)
	}

	address := common.HexToAddress(cfg.Address)
	client := &Client{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend:  backend,
		logger:   cfg.Logger.With().Str("component", "registry_client").Logger(),
	}

	if cfg.OperatorKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.OperatorKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse operator key: %w", err)
		}
		signer, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(cfg.ChainID))
		if err != nil {
			return nil, fmt.Errorf("build transactor: %w", err)
		}
		client.signer = signer
		client.operator = crypto.PubkeyToAddress(key.PublicKey)
	}

	return client, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.backend.Close()
}

// Operator returns the address transactions are signed with, empty when the
// client is read-only.
func (c *Client) Operator() string {
	if c.signer == nil {
		return ""
	}
	return c.operator.Hex()
}

func (c *Client) call(ctx context.Context, out *[]interface{}, method string, args ...interface{}) error {
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, out, method, args...); err != nil {
		return fmt.Errorf("registry %s: %w", method, err)
	}
	return nil
}

func (c *Client) callUint64(ctx context.Context, method string) (uint64, error) {
	var out []interface{}
	if err := c.call(ctx, &out, method); err != nil {
		return 0, err
	}
	value := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return value.Uint64(), nil
}

func (c *Client) callAddress(ctx context.Context, method string) (string, error) {
	var out []interface{}
	if err := c.call(ctx, &out, method); err != nil {
		return "", err
	}
	value := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return value.Hex(), nil
}

// NextContributionID reads the counter the contract will assign to the next
// submission.
func (c *Client) NextContributionID(ctx context.Context) (uint64, error) {
	return c.callUint64(ctx, "nextContributionId")
}

// ContributionCount reads the total number of stored contributions.
func (c *Client) ContributionCount(ctx context.Context) (uint64, error) {
	return c.callUint64(ctx, "contributionCount")
}

// Owner reads the contract owner address.
func (c *Client) Owner(ctx context.Context) (string, error) {
	return c.callAddress(ctx, "owner")
}

// GovernanceExecutor reads the delegated governance executor address.
func (c *Client) GovernanceExecutor(ctx context.Context) (string, error) {
	return c.callAddress(ctx, "governanceExecutor")
}

// GetContribution fetches a single contribution by identifier.
func (c *Client) GetContribution(ctx context.Context, id uint64) (Contribution, error) {
	var out []interface{}
	if err := c.call(ctx, &out, "getContribution", new(big.Int).SetUint64(id)); err != nil {
		return Contribution{}, err
	}
	raw := *abi.ConvertType(out[0], new(rawContribution)).(*rawContribution)
	return decodeContribution(raw), nil
}

// GetContributions fetches a bounded page of contributions in storage order.
func (c *Client) GetContributions(ctx context.Context, offset, limit uint64) ([]Contribution, error) {
	var out []interface{}
	if err := c.call(ctx, &out, "getContributions", new(big.Int).SetUint64(offset), new(big.Int).SetUint64(limit)); err != nil {
		return nil, err
	}
	raws := *abi.ConvertType(out[0], new([]rawContribution)).(*[]rawContribution)

	contributions := make([]Contribution, 0, len(raws))
	for _, raw := range raws {
		contributions = append(contributions, decodeContribution(raw))
	}
	return contributions, nil
}

func (c *Client) transact(ctx context.Context, method string, args ...interface{}) (TxHandle, error) {
	if c.signer == nil {
		return "", fmt.Errorf("registry %s: no operator key configured", method)
	}

	opts := *c.signer
	opts.Context = ctx

	tx, err := c.contract.Transact(&opts, method, args...)
	if err != nil {
		return "", fmt.Errorf("registry %s: %w", method, err)
	}

	handle := TxHandle(tx.Hash().Hex())
	c.pending.Store(handle, tx)
	c.logger.Info().Str("method", method).Str("tx", string(handle)).Msg("registry transaction sent")
	return handle, nil
}

// SubmitContribution issues the submitContribution write and returns a
// handle for Watch.
func (c *Client) SubmitContribution(ctx context.Context, params SubmitParams) (TxHandle, error) {
	return c.transact(ctx, "submitContribution",
		params.Title,
		params.MetadataURI,
		params.AIReport,
		uint8(params.AIVerdict),
		params.Score.Technical,
		params.Score.Community,
		params.Score.Governance,
		params.Score.Overall,
	)
}

// ResolveContribution issues the governance resolution write.
func (c *Client) ResolveContribution(ctx context.Context, id uint64, verdict Verdict, proposalID uint64, notes string) (TxHandle, error) {
	return c.transact(ctx, "resolveContribution",
		new(big.Int).SetUint64(id),
		uint8(verdict),
		new(big.Int).SetUint64(proposalID),
		notes,
	)
}

// SetGovernanceExecutor issues the administrative executor update.
func (c *Client) SetGovernanceExecutor(ctx context.Context, executor string) (TxHandle, error) {
	if !common.IsHexAddress(executor) {
		return "", fmt.Errorf("invalid executor address %q", executor)
	}
	return c.transact(ctx, "setGovernanceExecutor", common.HexToAddress(executor))
}

// Watch blocks until the transaction behind the handle reaches a terminal
// state. For submission transactions the assigned contribution identifier is
// decoded from the ContributionSubmitted event in the receipt.
func (c *Client) Watch(ctx context.Context, handle TxHandle) (TxStatus, error) {
	stored, ok := c.pending.Load(handle)
	if !ok {
		return TxStatus{}, fmt.Errorf("unknown transaction %s", handle)
	}
	tx := stored.(*ethtypes.Transaction)

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return TxStatus{}, fmt.Errorf("wait mined %s: %w", handle, err)
	}
	c.pending.Delete(handle)

	status := TxStatus{
		Hash:      handle,
		Confirmed: receipt.Status == ethtypes.ReceiptStatusSuccessful,
	}

	submittedTopic := c.abi.Events["ContributionSubmitted"].ID
	for _, entry := range receipt.Logs {
		if entry.Address != c.address || len(entry.Topics) < 2 || entry.Topics[0] != submittedTopic {
			continue
		}
		id := new(big.Int).SetBytes(entry.Topics[1].Bytes()).Uint64()
		status.AssignedID = &id
		break
	}

	return status, nil
}

func decodeContribution(raw rawContribution) Contribution {
	return Contribution{
		ID:            raw.Id.Uint64(),
		Submitter:     raw.Submitter.Hex(),
		Title:         raw.Title,
		MetadataURI:   raw.MetadataURI,
		AIReport:      raw.AiReport,
		AIVerdict:     Verdict(raw.AiVerdict),
		Score: Score{
			Technical:  raw.Score.Technical,
			Community:  raw.Score.Community,
			Governance: raw.Score.Governance,
			Overall:    raw.Score.Overall,
		},
		SubmittedAt:   raw.SubmittedAt.Int64(),
		FinalVerdict:  Verdict(raw.FinalVerdict),
		FinalApprover: raw.FinalApprover.Hex(),
		FinalizedAt:   raw.FinalizedAt.Int64(),
		ProposalID:    raw.ProposalId.Uint64(),
		Notes:         raw.Notes,
	}
}
