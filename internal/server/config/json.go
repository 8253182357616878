package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/skycover/skycover/internal/flagx"
	"github.com/skycover/skycover/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	JWTSecret             string         `json:"jwt_secret"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	EthereumRPCURL        string         `json:"ethereum_rpc_url"`
	ContractAddress       string         `json:"contract_address"`
	VerificationEnabled   *bool          `json:"verification_enabled"`
	VerificationTimeout   timex.Duration `json:"verification_timeout"`
	WeatherAPIBaseURL     string         `json:"weather_api_base_url"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.JWTSecret != "" {
		config.JWTSecret = c.JWTSecret
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	}
	if c.EthereumRPCURL != "" {
		config.EthereumRPCURL = c.EthereumRPCURL
	}
	if c.ContractAddress != "" {
		config.ContractAddress = c.ContractAddress
	}
	if c.VerificationEnabled != nil {
		config.VerificationEnabled = *c.VerificationEnabled
	}
	if c.VerificationTimeout.Duration != 0 {
		config.VerificationTimeout = time.Duration(c.VerificationTimeout.Duration)
	}
	if c.WeatherAPIBaseURL != "" {
		config.WeatherAPIBaseURL = c.WeatherAPIBaseURL
	}
}
