package backend

import (
	"github.com/DefiantLabs/probe/client"

	"inj-staker/logger"
)

func NewChainClient(chainID, accountPrefix, rpcStr string) (*client.ChainClient, error) {
	config := &client.ChainClientConfig{
		Key:            "default",
		ChainID:        chainID,
		RPCAddr:        rpcStr,
		AccountPrefix:  accountPrefix,
		KeyringBackend: "test",
		Debug:          false,
		Timeout:        "60s",
		OutputFormat:   "json",
		Modules:        client.DefaultModuleBasics,
	}

	cl, err := client.NewChainClient(config, "", nil, nil)
	if err != nil {
		logger.Logger.Error(err)
		return nil, err
	}
	return cl, nil
}
