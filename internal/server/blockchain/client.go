// Package blockchain confirms on-chain premium payments. The Verifier
// checks that a transaction hash names a confirmed transaction from the
// policyholder's wallet to the insurance contract carrying a nonzero value.
package blockchain

import (
	"context"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ChainClient is the narrow read surface of an Ethereum JSON-RPC node used
// by the Verifier. *ethclient.Client satisfies it.
type ChainClient interface {
	TransactionReceipt(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, txHash ethcommon.Hash) (*types.Transaction, bool, error)
	TransactionSender(ctx context.Context, tx *types.Transaction, block ethcommon.Hash, index uint) (ethcommon.Address, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Dial connects to the configured JSON-RPC endpoint.
func Dial(rpcURL string) (ChainClient, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, wrapError(KindNetworkError, err, "failed to connect to RPC %s", rpcURL)
	}
	return client, nil
}
