package config

import (
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tonkeeper/tongo"
)

const (
	MainNetwork = "mainnet"
	TestNetwork = "testnet"
)

const (
	DefaultMainnetApiUrl = "https://tonapi.io"
	DefaultTestnetApiUrl = "https://testnet.tonapi.io"

	// Standard subwallet id of wallet v4 contracts.
	DefaultSubwalletId = uint32(698983191)
)

var (
	ErrorInvalidNetwork = fmt.Errorf("network must be equal to 'mainnet' or 'testnet' only")

	ErrorNoWalletAddress        = fmt.Errorf("no wallet address is defined")
	ErrorInvalidWalletAddress   = fmt.Errorf("invalid wallet address")
	ErrorInvalidWalletPublicKey = fmt.Errorf("wallet public key must be a 32-byte hex string")
	ErrorNoKeystorePath         = fmt.Errorf("no keystore path is defined")

	ErrorInvalidClockSkewTolerance = fmt.Errorf("invalid time value for clock skew tolerance")
	ErrorInvalidMessageLifetime    = fmt.Errorf("invalid time value for message lifetime")
	ErrorInvalidJettonGasBudget    = fmt.Errorf("invalid toncoin value for jetton gas budget")
	ErrorSameSeparators            = fmt.Errorf("decimal and group separators must differ")
)

var (
	TrailingSlashRE = regexp.MustCompile("/+$")
)

var (
	dbUri   string
	network string

	chainApiUrl  string
	keystorePath string

	walletAddress   string
	walletAccountId tongo.AccountID
	walletPublicKey string
	subwalletId     uint32

	clockSkewTolerance time.Duration
	messageLifetime    time.Duration
	jettonGasBudget    *big.Int

	decimalSeparator string
	groupSeparator   string

	metricsAddress string
)

func ReadConfig(filePath string) {
	viper.SetConfigFile(filePath)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("⚠️ Failed reading config file: %v\n", err.Error())
	}

	err := initializeVariables()
	if err != nil {
		log.Fatalf("Configuration error - %v\n", err.Error())
	}
}

// This method processes the configuration parameters and keeps the processed values
// in some variables for later accesses rapidly.
func initializeVariables() error {
	var err error

	// Database stuff
	dbUri = TrailingSlashRE.ReplaceAllString(viper.GetString("service_db_uri"), "")

	// Network stuff
	network = strings.TrimSpace(strings.ToLower(viper.GetString("network")))
	if strings.Compare(network, MainNetwork) != 0 && strings.Compare(network, TestNetwork) != 0 {
		return ErrorInvalidNetwork
	}

	chainApiUrl = TrailingSlashRE.ReplaceAllString(strings.TrimSpace(viper.GetString("chain_api_url")), "")
	if chainApiUrl == "" {
		chainApiUrl = DefaultMainnetApiUrl
		if IsTestNet() {
			chainApiUrl = DefaultTestnetApiUrl
		}
	}

	// Wallet stuff
	walletAddress = strings.TrimSpace(viper.GetString("wallet_address"))
	if walletAddress == "" {
		return ErrorNoWalletAddress
	}
	walletAccountId, err = tongo.AccountIDFromBase64Url(walletAddress)
	if err != nil {
		return ErrorInvalidWalletAddress
	}

	walletPublicKey = strings.ToLower(strings.TrimSpace(viper.GetString("wallet_public_key")))
	if raw, err := hex.DecodeString(walletPublicKey); err != nil || len(raw) != 32 {
		return ErrorInvalidWalletPublicKey
	}

	subwalletId = viper.GetUint32("subwallet_id")
	if subwalletId == 0 {
		subwalletId = DefaultSubwalletId
	}

	// Keystore stuff
	keystorePath = strings.TrimSpace(viper.GetString("keystore_path"))
	if keystorePath == "" {
		return ErrorNoKeystorePath
	}

	//---------------------------------------------------------------
	// clock skew tolerance
	strValue := viper.GetString("clock_skew_tolerance")
	if strValue == "" {
		strValue = "30s"
	}
	clockSkewTolerance, err = time.ParseDuration(strValue)
	if err != nil {
		return ErrorInvalidClockSkewTolerance
	}

	//---------------------------------------------------------------
	// message lifetime
	strValue = viper.GetString("message_lifetime")
	if strValue == "" {
		strValue = "5m"
	}
	messageLifetime, err = time.ParseDuration(strValue)
	if err != nil {
		return ErrorInvalidMessageLifetime
	}

	//---------------------------------------------------------------
	// jetton gas budget, a toncoin value like "0.64"
	strValue = viper.GetString("jetton_gas_budget")
	if strValue == "" {
		strValue = "0.64"
	}
	jettonGasBudget, err = parseToncoin(strValue)
	if err != nil {
		return ErrorInvalidJettonGasBudget
	}

	//---------------------------------------------------------------
	// display separators
	decimalSeparator = viper.GetString("decimal_separator")
	if decimalSeparator == "" {
		decimalSeparator = "."
	}
	groupSeparator = viper.GetString("group_separator")
	if groupSeparator == "" {
		groupSeparator = ","
	}
	if decimalSeparator == groupSeparator {
		return ErrorSameSeparators
	}

	metricsAddress = strings.TrimSpace(viper.GetString("metrics_address"))

	return nil
}

// parseToncoin converts a decimal toncoin string to nanotons.
func parseToncoin(value string) (*big.Int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ".", 2)
	whole, ok := new(big.Int).SetString(parts[0], 10)
	if !ok || whole.Sign() < 0 {
		return nil, fmt.Errorf("not a decimal number: %v", value)
	}
	nano := new(big.Int).Mul(whole, big.NewInt(1_000_000_000))
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 9 {
			frac = frac[:9]
		}
		frac = frac + strings.Repeat("0", 9-len(frac))
		fracValue, ok := new(big.Int).SetString(frac, 10)
		if !ok {
			return nil, fmt.Errorf("not a decimal number: %v", value)
		}
		nano.Add(nano, fracValue)
	}
	return nano, nil
}

//-------------------------------------------------------------------
// Normal configuration values

func GetDbUri() string {
	return dbUri
}

func GetNetwork() string {
	return network
}

func GetChainApiUrl() string {
	return chainApiUrl
}

func GetKeystorePath() string {
	return keystorePath
}

func GetWalletAddress() string {
	return walletAddress
}

func GetWalletAccountId() tongo.AccountID {
	return walletAccountId
}

func GetWalletPublicKey() string {
	return walletPublicKey
}

func GetSubwalletId() uint32 {
	return subwalletId
}

func GetClockSkewTolerance() time.Duration {
	return clockSkewTolerance
}

func GetMessageLifetime() time.Duration {
	return messageLifetime
}

func GetJettonGasBudget() *big.Int {
	return new(big.Int).Set(jettonGasBudget)
}

func GetDecimalSeparator() string {
	return decimalSeparator
}

func GetGroupSeparator() string {
	return groupSeparator
}

func GetMetricsAddress() string {
	return metricsAddress
}

// -------------------------------------------------------------------
// Evaluating values

func IsTestNet() bool {
	return strings.Compare(network, TestNetwork) == 0
}
