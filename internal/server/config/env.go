package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration values from environment variables.
// Variable names match the deployment conventions of the service:
//
//	ADDRESS                                 HTTP bind address
//	DATABASE_URL                            PostgreSQL DSN
//	JWT_SECRET                              token signing secret
//	TOKEN_VALIDITY_MINUTES                  session token lifetime, minutes
//	ETHEREUM_RPC_URL                        chain node endpoint
//	WEATHER_INSURANCE_CONTRACT_ADDRESS      insurance contract address
//	BLOCKCHAIN_VERIFICATION_ENABLED         "true"/"false"
//	VERIFICATION_TIMEOUT_SECONDS            per-RPC timeout, seconds
//	WEATHER_API_BASE_URL                    WeatherXM API base URL
//
// Unset or malformed values leave the current Config value untouched.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		config.JWTSecret = v
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY_MINUTES"); ok {
		if m, err := strconv.Atoi(v); err == nil {
			config.TokenValidityDuration = time.Duration(m) * time.Minute
		}
	}
	if v, ok := os.LookupEnv("ETHEREUM_RPC_URL"); ok {
		config.EthereumRPCURL = v
	}
	if v, ok := os.LookupEnv("WEATHER_INSURANCE_CONTRACT_ADDRESS"); ok {
		config.ContractAddress = v
	}
	if v, ok := os.LookupEnv("BLOCKCHAIN_VERIFICATION_ENABLED"); ok {
		config.VerificationEnabled = v == "true"
	}
	if v, ok := os.LookupEnv("VERIFICATION_TIMEOUT_SECONDS"); ok {
		if s, err := strconv.Atoi(v); err == nil {
			config.VerificationTimeout = time.Duration(s) * time.Second
		}
	}
	if v, ok := os.LookupEnv("WEATHER_API_BASE_URL"); ok {
		config.WeatherAPIBaseURL = v
	}
}
