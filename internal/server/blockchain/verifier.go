package blockchain

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Config holds the settings the Verifier needs. Enabled=false skips all
// chain access and is intended for non-production use only.
type Config struct {
	RPCURL          string
	ContractAddress string
	Enabled         bool
	Timeout         time.Duration
}

// VerificationResult is the verdict for one transaction hash. Soft
// business-rule mismatches (wrong sender, wrong recipient, zero value) are
// reported here with Verified=false; hard failures are returned as *Error.
type VerificationResult struct {
	Verified     bool    `json:"verified"`
	BlockNumber  *uint64 `json:"block_number,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// Verifier orchestrates the payment check against the chain. It is safe for
// concurrent use; all state is fixed at construction.
type Verifier struct {
	client   ChainClient
	contract ethcommon.Address
	enabled  bool
	timeout  time.Duration
}

// NewVerifier validates the configuration and dials the RPC endpoint.
// When verification is disabled no connection is attempted.
func NewVerifier(cfg Config) (*Verifier, error) {
	if !cfg.Enabled {
		return &Verifier{enabled: false, timeout: cfg.Timeout}, nil
	}

	if cfg.ContractAddress == "" {
		return nil, newError(KindContractError, "insurance contract address is not configured")
	}
	if !ethcommon.IsHexAddress(cfg.ContractAddress) {
		return nil, newError(KindParseError, "invalid contract address %q", cfg.ContractAddress)
	}

	client, err := Dial(cfg.RPCURL)
	if err != nil {
		return nil, err
	}

	return newVerifier(client, ethcommon.HexToAddress(cfg.ContractAddress), cfg.Timeout), nil
}

func newVerifier(client ChainClient, contract ethcommon.Address, timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Verifier{client: client, contract: contract, enabled: true, timeout: timeout}
}

// VerifyPolicyTransaction confirms that txHash names a successful, mined
// transaction sent from walletAddress to the insurance contract with a
// nonzero value. The checks run in order and stop at the first failure:
//
//  1. receipt fetch (existence, on-chain status, inclusion in a block)
//  2. transaction body fetch
//  3. sender match (soft)
//  4. recipient match (soft)
//  5. nonzero value (soft)
//
// Steps 1-2 fail hard with *Error so the caller can tell "payment rejected"
// from "could not check payment".
func (v *Verifier) VerifyPolicyTransaction(ctx context.Context, txHash string, walletAddress string) (*VerificationResult, error) {
	if !v.enabled {
		return &VerificationResult{Verified: true, ErrorMessage: "verification disabled"}, nil
	}

	hash, err := parseTxHash(txHash)
	if err != nil {
		return nil, err
	}

	// Step 1: the transaction exists, succeeded, and is mined.
	receipt, blockNumber, err := v.fetchConfirmedReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}

	// Step 2: full transaction body.
	tx, err := v.fetchTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}

	// Step 3: sender must be the policyholder's wallet.
	if !ethcommon.IsHexAddress(walletAddress) {
		return nil, newError(KindParseError, "invalid user address %q", walletAddress)
	}
	userAddr := ethcommon.HexToAddress(walletAddress)

	callCtx, cancel := context.WithTimeout(ctx, v.timeout)
	sender, err := v.client.TransactionSender(callCtx, tx, receipt.BlockHash, receipt.TransactionIndex)
	cancel()
	if err != nil {
		return nil, wrapError(KindNetworkError, err, "failed to recover transaction sender")
	}

	if sender != userAddr {
		return unverified(blockNumber, "transaction sender does not match user wallet"), nil
	}

	// Step 4: recipient must be the insurance contract.
	if tx.To() == nil || *tx.To() != v.contract {
		return unverified(blockNumber, "transaction not sent to the insurance contract"), nil
	}

	// Step 5: a premium must actually have been paid.
	if tx.Value().Sign() == 0 {
		return unverified(blockNumber, "no ETH sent with transaction"), nil
	}

	return &VerificationResult{Verified: true, BlockNumber: &blockNumber}, nil
}

// Health reports whether the chain node is reachable and returns the latest
// block number. With verification disabled it reports healthy without
// touching the network.
func (v *Verifier) Health(ctx context.Context) (uint64, error) {
	if !v.enabled {
		return 0, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	n, err := v.client.BlockNumber(callCtx)
	if err != nil {
		return 0, wrapError(KindNetworkError, err, "health check failed")
	}
	return n, nil
}

// Enabled reports whether on-chain verification is active.
func (v *Verifier) Enabled() bool {
	return v.enabled
}

func (v *Verifier) fetchConfirmedReceipt(ctx context.Context, hash ethcommon.Hash) (*types.Receipt, uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	receipt, err := v.client.TransactionReceipt(callCtx, hash)
	if err != nil {
		if isNotFound(err) {
			return nil, 0, newError(KindTransactionNotFound, "transaction %s not found", hash.Hex())
		}
		return nil, 0, wrapError(KindNetworkError, err, "failed to get transaction receipt")
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, 0, newError(KindInvalidTransaction, "transaction failed on chain")
	}

	if receipt.BlockNumber == nil {
		return nil, 0, newError(KindTransactionNotConfirmed, "transaction not yet included in a block")
	}

	return receipt, receipt.BlockNumber.Uint64(), nil
}

func (v *Verifier) fetchTransaction(ctx context.Context, hash ethcommon.Hash) (*types.Transaction, error) {
	callCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	tx, pending, err := v.client.TransactionByHash(callCtx, hash)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(KindTransactionNotFound, "transaction %s not found", hash.Hex())
		}
		return nil, wrapError(KindNetworkError, err, "failed to get transaction")
	}
	if pending {
		return nil, newError(KindTransactionNotConfirmed, "transaction is still pending")
	}

	return tx, nil
}

func isNotFound(err error) bool {
	// ethclient returns ethereum.NotFound for missing hashes; a timed-out
	// context is a network fault, not an absence.
	if err == nil {
		return false
	}
	if err == context.DeadlineExceeded || err == context.Canceled {
		return false
	}
	return err == ethereum.NotFound || err.Error() == ethereum.NotFound.Error()
}

func parseTxHash(txHash string) (ethcommon.Hash, error) {
	if !strings.HasPrefix(txHash, "0x") || len(txHash) != 66 {
		return ethcommon.Hash{}, newError(KindParseError, "invalid transaction hash %q", txHash)
	}
	if _, err := hex.DecodeString(txHash[2:]); err != nil {
		return ethcommon.Hash{}, newError(KindParseError, "invalid transaction hash %q", txHash)
	}
	return ethcommon.HexToHash(txHash), nil
}

func unverified(blockNumber uint64, message string) *VerificationResult {
	return &VerificationResult{Verified: false, BlockNumber: &blockNumber, ErrorMessage: message}
}
