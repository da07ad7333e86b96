package mse

import (
	"context"
	"os"
	"strconv"

	"github.com/ninja0404/old-runners/pkg/config/source"
)

type (
	mseConfigKey struct{}
	clientKey    struct{}
)

const defaultPort uint64 = 8848

type MseConfig struct {
	ServerAddr  string
	Port        uint64
	NamespaceID string
	AccessKey   string
	SecretKey   string
	Group       string
	DataID      string
}

// ConfigFromEnv reads MSE_* variables. Group falls back to DEFAULT_GROUP, port to 8848.
func ConfigFromEnv(prefix string) *MseConfig {
	conf := &MseConfig{
		ServerAddr:  os.Getenv(prefix + "MSE_SERVER_ADDR"),
		Port:        defaultPort,
		NamespaceID: os.Getenv(prefix + "MSE_NAMESPACE"),
		AccessKey:   os.Getenv(prefix + "MSE_ACCESSKEY"),
		SecretKey:   os.Getenv(prefix + "MSE_SECRETKEY"),
		Group:       os.Getenv(prefix + "MSE_GROUP"),
		DataID:      os.Getenv(prefix + "MSE_DATAID"),
	}
	if p, err := strconv.ParseUint(os.Getenv(prefix+"MSE_PORT"), 10, 64); err == nil && p > 0 {
		conf.Port = p
	}
	if conf.Group == "" {
		conf.Group = DEFAULT_GROUP
	}
	return conf
}

func withContextValue(key, val interface{}) source.Option {
	return func(o *source.Options) {
		if o.Context == nil {
			o.Context = context.Background()
		}
		o.Context = context.WithValue(o.Context, key, val)
	}
}

func WithMseConfig(conf *MseConfig) source.Option {
	return withContextValue(mseConfigKey{}, conf)
}

// WithClient injects an existing nacos config client.
func WithClient(client ConfigClient) source.Option {
	return withContextValue(clientKey{}, client)
}
