package config

import (
	"flag"
	"os"
	"time"

	"github.com/skycover/skycover/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-r string   Ethereum JSON-RPC URL
//	-k string   insurance contract address (hex)
//	-v bool     enable on-chain verification
//	-w int      verification RPC timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and then converted to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-k", "-v", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")

	fs.StringVar(&config.EthereumRPCURL, "r", config.EthereumRPCURL, "Ethereum JSON-RPC URL")
	fs.StringVar(&config.ContractAddress, "k", config.ContractAddress, "insurance contract address")
	fs.BoolVar(&config.VerificationEnabled, "v", config.VerificationEnabled, "enable blockchain verification")

	verificationTimeout := fs.Int("w", int(config.VerificationTimeout.Seconds()), "verification RPC timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	config.VerificationTimeout = time.Duration(*verificationTimeout) * time.Second
}
