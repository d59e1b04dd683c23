package config

var Cfg Conf

type Conf struct {
	Port      int    `yaml:"port"`
	DbTailFix string `yaml:"db_tail_fix"`
	Rpc       string `yaml:"rpc"`
	ChainID   string `yaml:"chain_id"`

	// Genesis parameters, only read when the ledger is first initialised.
	Owner            string `yaml:"owner"`
	Treasury         string `yaml:"treasury"`
	DefaultValidator string `yaml:"default_validator"`
	StakerAddr       string `yaml:"staker_addr"`

	CompoundSpec string `yaml:"compound_spec"`
}
