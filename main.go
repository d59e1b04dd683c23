package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"

	sdkTypes "github.com/cosmos/cosmos-sdk/types"

	"inj-staker/backend"
	"inj-staker/config"
	"inj-staker/cornjob"
	"inj-staker/db"
	"inj-staker/logger"
	"inj-staker/router"
	"inj-staker/rpc"
	"inj-staker/service"
	"inj-staker/staker"
	"inj-staker/token"
	"inj-staker/util"
)

var (
	configFlag = flag.String("config", "config.yaml", "Config file")
)

func init() {
	prefix := os.Getenv("ACCOUNT_PREFIX")
	if prefix == "" {
		prefix = "inj"
	}
	// Set prefixes
	accountPubKeyPrefix := prefix + "pub"
	validatorAddressPrefix := prefix + "valoper"
	validatorPubKeyPrefix := prefix + "valoperpub"
	consNodeAddressPrefix := prefix + "valcons"
	consNodePubKeyPrefix := prefix + "valconspub"

	sdkConfig := sdkTypes.GetConfig()

	sdkConfig.SetCoinType(60)
	sdkConfig.SetPurpose(44)

	sdkConfig.SetBech32PrefixForAccount(prefix, accountPubKeyPrefix)
	sdkConfig.SetBech32PrefixForValidator(validatorAddressPrefix, validatorPubKeyPrefix)
	sdkConfig.SetBech32PrefixForConsensusNode(consNodeAddressPrefix, consNodePubKeyPrefix)
	sdkConfig.Seal()
}

func main() {
	flag.Parse()
	util.LoadConfig(*configFlag, &config.Cfg)
	cfg := &config.Cfg
	ldb := db.NewLdb(cfg.DbTailFix)
	defer ldb.Close()

	tok := token.NewLedger()

	var be staker.Backend
	if cfg.Rpc != "" {
		prefix := os.Getenv("ACCOUNT_PREFIX")
		if prefix == "" {
			prefix = "inj"
		}
		cl, err := backend.NewChainClient(cfg.ChainID, prefix, cfg.Rpc)
		if err != nil {
			logger.Logger.Fatal(err)
		}
		catchingUp, err := rpc.IsCatchingUp(cl)
		if err != nil {
			logger.Logger.Fatal(err)
		}
		if catchingUp {
			logger.Logger.Fatalf("node %s is still catching up", cfg.Rpc)
		}
		height, err := rpc.GetLatestBlockHeight(cl)
		if err != nil {
			logger.Logger.Fatal(err)
		}
		logger.Logger.Infof("connected to %s at height %d", cfg.Rpc, height)
		be = backend.NewChain(cl, cfg.StakerAddr, staker.Denom, nil)
	} else {
		local := backend.NewLocal(cfg.StakerAddr)
		local.AddValidatorToSet(cfg.DefaultValidator)
		local.FundAccount(cfg.StakerAddr, staker.OneInj)
		be = local
	}

	engine := staker.New(ldb, tok, be, cfg.StakerAddr)

	initialized, err := engine.Initialized()
	if err != nil {
		logger.Logger.Fatal(err)
	}
	if !initialized {
		if _, err := engine.Init(cfg.Owner, cfg.Treasury, cfg.DefaultValidator, staker.OneInj); err != nil {
			logger.Logger.Fatal(err)
		}
	}

	svc := service.NewService(ldb, engine)
	ginEngine := router.Init(svc)
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: ginEngine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			logger.Logger.Fatalf("listen addr:%s,err:%v", addr, err)
		}
	}()

	go cornjob.CronJobCompoundInit(svc, cfg.CompoundSpec)

	var wg sync.WaitGroup
	wg.Add(1)
	wg.Wait()
}
