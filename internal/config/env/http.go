package env

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"slot_backend/internal/config"
)

const (
	portEnvName = "PORT"
	hostEnvName = "HTTP_HOST"

	defaultPort = "3001"
)

type httpConfig struct {
	host string
	port string
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	port := os.Getenv(portEnvName)
	if len(port) == 0 {
		port = defaultPort
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return nil, fmt.Errorf("invalid port %q", port)
	}

	return &httpConfig{
		host: os.Getenv(hostEnvName),
		port: port,
	}, nil
}

func (cfg *httpConfig) Address() string {
	return net.JoinHostPort(cfg.host, cfg.port)
}
