package server

import (
	"fmt"
	"net"
	"strconv"
)

// Default listen settings. The API is meant to sit behind a reverse proxy
// or run on a developer machine, so it binds every interface by default.
const (
	DefaultAddress = "0.0.0.0"
	DefaultPort    = "5000"
)

// Config holds the listen settings of the HTTP API.
type Config struct {
	Address string
	Port    string
}

// Addr returns the host:port pair to listen on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Address, c.Port)
}

// Validate returns an error if the address or port is unusable.
func (c Config) Validate() error {
	if err := validatePort(c.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	if err := validateAddress(c.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}
	return nil
}

func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	return nil
}

func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}
	if address == "localhost" {
		return nil
	}
	if ip := net.ParseIP(address); ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}
	return nil
}
