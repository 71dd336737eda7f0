package valkeystore

import (
	"fmt"
	"os"
	"strings"
	"transcript-sentiment/utils"

	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/valkeycompat"
	"go.uber.org/zap"
)

// Client is nil until InitValkey succeeds; callers treat nil as "cache disabled"
var Client valkeycompat.Cmdable
var RawClient valkey.Client

func InitValkey(logger *zap.Logger) error {
	vk, err := valkey.NewClient(clientOption(logger))
	if err != nil {
		return fmt.Errorf("failed to connect to valkey: %w", err)
	}

	RawClient = vk
	Client = valkeycompat.NewAdapter(vk)
	logger.Info("Cache service initialized successfully")
	return nil
}

func clientOption(logger *zap.Logger) valkey.ClientOption {
	if os.Getenv("VALKEY_USE_SENTINEL") != "true" {
		logger.Info("Initializing cache service")
		addr := fmt.Sprintf("%s:%s", utils.MustGetEnv("VALKEY_HOST"), utils.GetEnvOrDefault("VALKEY_PORT", "6379"))
		return valkey.ClientOption{InitAddress: []string{addr}}
	}

	logger.Info("Initializing cache service with sentinel configuration")
	return valkey.ClientOption{
		InitAddress: sentinelAddresses(utils.MustGetEnv("VALKEY_SENTINEL_ADDRESS")),
		Sentinel: valkey.SentinelOption{
			MasterSet: utils.GetEnvOrDefault("VALKEY_SENTINEL_MASTER_NAME", "mymaster"),
		},
	}
}

func sentinelAddresses(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsMiss reports whether err means the key does not exist
func IsMiss(err error) bool {
	return err != nil && valkey.IsValkeyNil(err)
}

func Close() {
	if RawClient != nil {
		RawClient.Close()
	}
}
