package device

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/blockscope/blockscope/internal/types"
)

// EngineConfig holds the session tunables. The correlation and association
// values default to the fixed policy constants; overriding them is supported
// for experimentation but the defaults are the documented behavior.
type EngineConfig struct {
	BlockSize            uint32  `mapstructure:"block_size"`
	MaxAnalyzedBlocks    int     `mapstructure:"max_analyzed_blocks"`
	CorrelationWindow    int     `mapstructure:"correlation_window"`
	CorrelationThreshold float64 `mapstructure:"correlation_threshold"`
	LogLevel             string  `mapstructure:"log_level"`
}

// LoadEngineConfig loads engine configuration using Viper.
func LoadEngineConfig() (*EngineConfig, error) {
	viper.SetConfigName("blockscope-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.blockscope")
	viper.AddConfigPath("/etc/blockscope")

	// Set defaults
	viper.SetDefault("block_size", types.DefaultBlockSize)
	viper.SetDefault("max_analyzed_blocks", types.MaxAnalyzedBlocks)
	viper.SetDefault("correlation_window", types.CorrelationWindow)
	viper.SetDefault("correlation_threshold", types.CorrelationThreshold)
	viper.SetDefault("log_level", "info")

	// Allow environment variables
	viper.SetEnvPrefix("BLOCKSCOPE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var config EngineConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.BlockSize == 0 {
		config.BlockSize = types.DefaultBlockSize
	}
	return &config, nil
}
