package utils

import (
	"flag"
	"strconv"

	"github.com/0xRadioAc7iv/kvstore/internal"
)

// ParseServerArgs parses the server's positional command-line arguments:
// <host> <port> <store-root>. Any argument omitted from the right falls
// back to internal.DefaultConfig's value.
func ParseServerArgs() (*internal.Config, error) {
	flag.Parse()

	cfg := internal.DefaultConfig()

	args := flag.Args()
	if len(args) > 0 {
		cfg.Host = args[0]
	}
	if len(args) > 1 {
		port, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, err
		}
		cfg.Port = port
	}
	if len(args) > 2 {
		cfg.Root = args[2]
	}

	return cfg, nil
}
