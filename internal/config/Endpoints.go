package config

import (
	"github.com/rs/zerolog/log"
)

// Endpoint configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// YieldsAPI is the aggregated pools/yields API endpoint.
	YieldsAPI string
	// LendingAPI is the lending markets API endpoint.
	LendingAPI string
	// StakingAPI is the liquid staking stats API endpoint.
	StakingAPI string
)

// loadEndpointConfig loads endpoint configuration from environment variables.
// This function is called by LoadConfig() in General.go.
func loadEndpointConfig() error {
	log.Info().Msg("Loading endpoint configuration from environment variables...")

	var err error

	YieldsAPI, err = getEnv("YIELDS_API")
	if err != nil {
		return err
	}

	LendingAPI, err = getEnv("LENDING_API")
	if err != nil {
		return err
	}

	StakingAPI, err = getEnv("STAKING_API")
	if err != nil {
		return err
	}

	log.Debug().
		Str("YieldsAPI", YieldsAPI).
		Str("LendingAPI", LendingAPI).
		Str("StakingAPI", StakingAPI).
		Msg("Endpoint configuration loaded successfully.")

	return nil
}
