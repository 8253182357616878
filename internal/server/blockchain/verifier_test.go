package blockchain

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	testTxHash = "0x1111111111111111111111111111111111111111111111111111111111111111"
	testWallet = "0x1234567890123456789012345678901234567890"
)

var testContract = ethcommon.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

type fakeChainClient struct {
	receipt    *types.Receipt
	receiptErr error

	tx      *types.Transaction
	pending bool
	txErr   error

	sender    ethcommon.Address
	senderErr error

	blockNumber uint64
	blockErr    error

	receiptCalls int
	txCalls      int
}

func (f *fakeChainClient) TransactionReceipt(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error) {
	f.receiptCalls++
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	return f.receipt, nil
}

func (f *fakeChainClient) TransactionByHash(ctx context.Context, txHash ethcommon.Hash) (*types.Transaction, bool, error) {
	f.txCalls++
	if f.txErr != nil {
		return nil, false, f.txErr
	}
	return f.tx, f.pending, nil
}

func (f *fakeChainClient) TransactionSender(ctx context.Context, tx *types.Transaction, block ethcommon.Hash, index uint) (ethcommon.Address, error) {
	if f.senderErr != nil {
		return ethcommon.Address{}, f.senderErr
	}
	return f.sender, nil
}

func (f *fakeChainClient) BlockNumber(ctx context.Context) (uint64, error) {
	if f.blockErr != nil {
		return 0, f.blockErr
	}
	return f.blockNumber, nil
}

func confirmedReceipt(block int64) *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(block),
		BlockHash:   ethcommon.HexToHash("0xbbbb"),
	}
}

func paymentTx(to ethcommon.Address, value *big.Int) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    1,
		To:       &to,
		Value:    value,
		Gas:      21000,
		GasPrice: big.NewInt(1),
	})
}

func newTestVerifier(client ChainClient) *Verifier {
	return newVerifier(client, testContract, time.Second)
}

func TestVerify_Disabled(t *testing.T) {
	t.Parallel()

	client := &fakeChainClient{}
	v := &Verifier{enabled: false}

	res, err := v.VerifyPolicyTransaction(context.Background(), testTxHash, testWallet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Verified {
		t.Fatalf("expected verified result, got %+v", res)
	}
	if res.ErrorMessage != "verification disabled" {
		t.Fatalf("unexpected message: %q", res.ErrorMessage)
	}
	if client.receiptCalls != 0 || client.txCalls != 0 {
		t.Fatalf("expected no chain calls, got %d/%d", client.receiptCalls, client.txCalls)
	}
}

func TestVerify_InvalidHash(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(&fakeChainClient{})

	for _, h := range []string{"", "0x123", "not-a-hash", testTxHash[:65] + "g"} {
		_, err := v.VerifyPolicyTransaction(context.Background(), h, testWallet)
		if kind, ok := KindOf(err); !ok || kind != KindParseError {
			t.Fatalf("hash %q: expected parse error, got %v", h, err)
		}
	}
}

func TestVerify_ReceiptNotFound(t *testing.T) {
	t.Parallel()

	client := &fakeChainClient{receiptErr: ethereum.NotFound}
	v := newTestVerifier(client)

	_, err := v.VerifyPolicyTransaction(context.Background(), testTxHash, testWallet)
	if kind, ok := KindOf(err); !ok || kind != KindTransactionNotFound {
		t.Fatalf("expected transaction-not-found, got %v", err)
	}
	if client.txCalls != 0 {
		t.Fatalf("transaction fetch must not run after a missing receipt")
	}
}

func TestVerify_ReceiptNetworkError(t *testing.T) {
	t.Parallel()

	client := &fakeChainClient{receiptErr: errors.New("connection refused")}
	v := newTestVerifier(client)

	_, err := v.VerifyPolicyTransaction(context.Background(), testTxHash, testWallet)
	if kind, ok := KindOf(err); !ok || kind != KindNetworkError {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestVerify_FailedTransaction(t *testing.T) {
	t.Parallel()

	client := &fakeChainClient{receipt: &types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(10),
	}}
	v := newTestVerifier(client)

	_, err := v.VerifyPolicyTransaction(context.Background(), testTxHash, testWallet)
	if kind, ok := KindOf(err); !ok || kind != KindInvalidTransaction {
		t.Fatalf("expected invalid-transaction, got %v", err)
	}
}

func TestVerify_NotConfirmed(t *testing.T) {
	t.Parallel()

	client := &fakeChainClient{receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful}}
	v := newTestVerifier(client)

	_, err := v.VerifyPolicyTransaction(context.Background(), testTxHash, testWallet)
	if kind, ok := KindOf(err); !ok || kind != KindTransactionNotConfirmed {
		t.Fatalf("expected not-confirmed, got %v", err)
	}
}

func TestVerify_PendingTransaction(t *testing.T) {
	t.Parallel()

	client := &fakeChainClient{
		receipt: confirmedReceipt(10),
		tx:      paymentTx(testContract, big.NewInt(1)),
		pending: true,
	}
	v := newTestVerifier(client)

	_, err := v.VerifyPolicyTransaction(context.Background(), testTxHash, testWallet)
	if kind, ok := KindOf(err); !ok || kind != KindTransactionNotConfirmed {
		t.Fatalf("expected not-confirmed, got %v", err)
	}
}

func TestVerify_SenderMismatch(t *testing.T) {
	t.Parallel()

	client := &fakeChainClient{
		receipt: confirmedReceipt(42),
		tx:      paymentTx(testContract, big.NewInt(1)),
		sender:  ethcommon.HexToAddress("0x9999999999999999999999999999999999999999"),
	}
	v := newTestVerifier(client)

	res, err := v.VerifyPolicyTransaction(context.Background(), testTxHash, testWallet)
	if err != nil {
		t.Fatalf("sender mismatch must be a soft failure, got error %v", err)
	}
	if res.Verified {
		t.Fatalf("expected unverified result")
	}
	if res.ErrorMessage != "transaction sender does not match user wallet" {
		t.Fatalf("unexpected message: %q", res.ErrorMessage)
	}
	if res.BlockNumber == nil || *res.BlockNumber != 42 {
		t.Fatalf("expected block number 42, got %v", res.BlockNumber)
	}
}

func TestVerify_WrongRecipient(t *testing.T) {
	t.Parallel()

	other := ethcommon.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	client := &fakeChainClient{
		receipt: confirmedReceipt(42),
		tx:      paymentTx(other, big.NewInt(1)),
		sender:  ethcommon.HexToAddress(testWallet),
	}
	v := newTestVerifier(client)

	res, err := v.VerifyPolicyTransaction(context.Background(), testTxHash, testWallet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Verified || res.ErrorMessage != "transaction not sent to the insurance contract" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestVerify_ZeroValue(t *testing.T) {
	t.Parallel()

	client := &fakeChainClient{
		receipt: confirmedReceipt(42),
		tx:      paymentTx(testContract, big.NewInt(0)),
		sender:  ethcommon.HexToAddress(testWallet),
	}
	v := newTestVerifier(client)

	res, err := v.VerifyPolicyTransaction(context.Background(), testTxHash, testWallet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Verified || res.ErrorMessage != "no ETH sent with transaction" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestVerify_InvalidWallet(t *testing.T) {
	t.Parallel()

	client := &fakeChainClient{
		receipt: confirmedReceipt(42),
		tx:      paymentTx(testContract, big.NewInt(1)),
	}
	v := newTestVerifier(client)

	_, err := v.VerifyPolicyTransaction(context.Background(), testTxHash, "not-an-address")
	if kind, ok := KindOf(err); !ok || kind != KindParseError {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestVerify_Success(t *testing.T) {
	t.Parallel()

	client := &fakeChainClient{
		receipt: confirmedReceipt(777),
		tx:      paymentTx(testContract, big.NewInt(1_000_000)),
		sender:  ethcommon.HexToAddress(testWallet),
	}
	v := newTestVerifier(client)

	res, err := v.VerifyPolicyTransaction(context.Background(), testTxHash, testWallet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Verified {
		t.Fatalf("expected verified result: %+v", res)
	}
	if res.ErrorMessage != "" {
		t.Fatalf("verified result must carry no error message, got %q", res.ErrorMessage)
	}
	if res.BlockNumber == nil || *res.BlockNumber != 777 {
		t.Fatalf("expected block number 777, got %v", res.BlockNumber)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(&fakeChainClient{blockNumber: 123})
	n, err := v.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 123 {
		t.Fatalf("expected block 123, got %d", n)
	}

	v = newTestVerifier(&fakeChainClient{blockErr: errors.New("down")})
	if _, err := v.Health(context.Background()); err == nil {
		t.Fatalf("expected error for unreachable node")
	}
}

func TestNewVerifier_ConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := NewVerifier(Config{Enabled: true, RPCURL: "http://localhost:8545"})
	if kind, ok := KindOf(err); !ok || kind != KindContractError {
		t.Fatalf("expected contract error for missing address, got %v", err)
	}

	_, err = NewVerifier(Config{Enabled: true, RPCURL: "http://localhost:8545", ContractAddress: "nope"})
	if kind, ok := KindOf(err); !ok || kind != KindParseError {
		t.Fatalf("expected parse error for bad address, got %v", err)
	}

	v, err := NewVerifier(Config{Enabled: false})
	if err != nil {
		t.Fatalf("disabled verifier must not fail: %v", err)
	}
	if v.Enabled() {
		t.Fatalf("expected disabled verifier")
	}
}
