// Command oracle submits a one-shot payout trigger to the insurance
// contract. The observed temperature is taken from the -temp flag, or
// fetched live from the weather API for the given coordinates when the flag
// is omitted. Values are passed to the contract scaled by 100.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/skycover/skycover/internal/weatherxm"
)

const triggerPayoutABI = `[{
	"name": "triggerPayout",
	"type": "function",
	"stateMutability": "nonpayable",
	"inputs": [
		{"name": "policyId", "type": "uint256"},
		{"name": "observedTemperature", "type": "int256"},
		{"name": "observationTimestamp", "type": "uint256"}
	],
	"outputs": []
}]`

func main() {
	var (
		policyID     = flag.Int64("policy", 0, "on-chain policy id")
		tempTimes100 = flag.Int64("temp", 0, "observed temperature, degrees Celsius x100 (fetched from the weather API when omitted)")
		lat          = flag.Float64("lat", 0, "latitude for the weather lookup")
		lng          = flag.Float64("lng", 0, "longitude for the weather lookup")
		weatherURL   = flag.String("weather-url", "https://api.weatherxm.com", "weather API base URL")
	)
	flag.Parse()

	if *policyID <= 0 {
		log.Fatal("-policy is required")
	}

	rpcURL := os.Getenv("ETHEREUM_RPC_URL")
	contractAddr := os.Getenv("WEATHER_INSURANCE_CONTRACT_ADDRESS")
	privateKeyHex := os.Getenv("ORACLE_PRIVATE_KEY")
	if rpcURL == "" || contractAddr == "" || privateKeyHex == "" {
		log.Fatal("ETHEREUM_RPC_URL, WEATHER_INSURANCE_CONTRACT_ADDRESS and ORACLE_PRIVATE_KEY must be set")
	}
	if !common.IsHexAddress(contractAddr) {
		log.Fatalf("invalid contract address: %s", contractAddr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	temp := *tempTimes100
	if !flagPassed("temp") {
		observation, err := weatherxm.NewClient(*weatherURL).ObservationForCoords(ctx, *lat, *lng)
		if err != nil {
			log.Fatalf("weather lookup failed: %v", err)
		}
		temp = int64(observation.Temperature * 100)
		log.Printf("observed temperature: %.2f°C", observation.Temperature)
	}

	txHash, err := triggerPayout(ctx, rpcURL, contractAddr, privateKeyHex, *policyID, temp)
	if err != nil {
		log.Fatalf("payout trigger failed: %v", err)
	}
	fmt.Println(txHash)
}

func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

func triggerPayout(ctx context.Context, rpcURL, contractAddr, privateKeyHex string, policyID, tempTimes100 int64) (string, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return "", fmt.Errorf("error connecting to chain node: %w", err)
	}
	defer client.Close()

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("error parsing private key: %w", err)
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	parsed, err := abi.JSON(strings.NewReader(triggerPayoutABI))
	if err != nil {
		return "", fmt.Errorf("error parsing contract abi: %w", err)
	}
	calldata, err := parsed.Pack("triggerPayout",
		big.NewInt(policyID),
		big.NewInt(tempTimes100),
		big.NewInt(time.Now().Unix()),
	)
	if err != nil {
		return "", fmt.Errorf("error encoding call: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching chain id: %w", err)
	}
	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("error fetching nonce: %w", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching gas price: %w", err)
	}

	to := common.HexToAddress(contractAddr)
	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &to,
		Data: calldata,
	})
	if err != nil {
		return "", fmt.Errorf("error estimating gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     calldata,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return "", fmt.Errorf("error signing transaction: %w", err)
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("error sending transaction: %w", err)
	}
	log.Printf("payout transaction sent: %s", signed.Hash().Hex())

	receipt, err := bind.WaitMined(ctx, client, signed)
	if err != nil {
		return "", fmt.Errorf("error waiting for confirmation: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("payout transaction reverted in block %d", receipt.BlockNumber.Uint64())
	}

	return signed.Hash().Hex(), nil
}
