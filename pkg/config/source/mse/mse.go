package mse

import (
	"strings"
	"time"

	"github.com/nacos-group/nacos-sdk-go/vo"
	"github.com/pkg/errors"

	"github.com/ninja0404/old-runners/pkg/config/source"
)

const DEFAULT_GROUP string = "DEFAULT_GROUP"

// ConfigClient is the subset of the nacos config client the source needs
type ConfigClient interface {
	GetConfig(param vo.ConfigParam) (string, error)
	ListenConfig(param vo.ConfigParam) error
	CancelListenConfig(param vo.ConfigParam) error
}

type mse struct {
	client ConfigClient
	config *MseConfig
	opts   source.Options
}

func (s *mse) param() vo.ConfigParam {
	return vo.ConfigParam{Group: s.config.Group, DataId: s.config.DataID}
}

func (s *mse) changeSet(data string) *source.ChangeSet {
	cs := &source.ChangeSet{
		Format:    s.opts.Format,
		Source:    s.String(),
		Timestamp: time.Now(),
		Data:      []byte(data),
	}
	cs.Checksum = cs.Sum()
	return cs
}

func (s *mse) Read() (*source.ChangeSet, error) {
	content, err := s.client.GetConfig(s.param())
	if err != nil {
		return nil, errors.Wrapf(err, "mse get config %s/%s", s.config.Group, s.config.DataID)
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.Errorf("mse config %s/%s is empty", s.config.Group, s.config.DataID)
	}
	return s.changeSet(content), nil
}

func (s *mse) String() string {
	return "mse"
}

func (s *mse) Watch() (source.Watcher, error) {
	return newWatcher(s)
}

func (s *mse) Write(cs *source.ChangeSet) error {
	return nil
}

// NewSource builds a nacos backed source. WithMseConfig is required; WithClient
// skips dialing the server.
func NewSource(opts ...source.Option) source.Source {
	options := source.NewOptions(opts...)
	mseConfig, ok := options.Context.Value(mseConfigKey{}).(*MseConfig)
	if !ok {
		panic("mse config not provided")
	}

	client, ok := options.Context.Value(clientKey{}).(ConfigClient)
	if !ok {
		c, err := createClient(mseConfig)
		if err != nil {
			panic(err)
		}
		client = c
	}

	return &mse{opts: options, client: client, config: mseConfig}
}
