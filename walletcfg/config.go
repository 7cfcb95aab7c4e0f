package walletcfg

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	flags "github.com/jessevdk/go-flags"
	"github.com/namewallet/walletkeys/build"
	"github.com/namewallet/walletkeys/keychain"
	"github.com/namewallet/walletkeys/keycrypt"
)

const (
	// DefaultConfigFilename is the default configuration file name.
	DefaultConfigFilename = "walletkeys.conf"

	// DefaultNetwork is the network used when none is configured.
	DefaultNetwork = "mainnet"

	// DefaultAddressSearchCount is the default number of child addresses
	// scanned when mapping an address back to its key.
	DefaultAddressSearchCount = 100

	// DefaultDebugLevel is the default log level of every subsystem.
	DefaultDebugLevel = "info"

	defaultLogDirname  = "logs"
	defaultLogFilename = "walletkeys.log"
)

var (
	// DefaultWalletDir is the default directory holding the config file
	// and logs.
	DefaultWalletDir = filepath.Join(homeDir(), ".walletkeys")

	// DefaultConfigFile is the default full path of the config file.
	DefaultConfigFile = filepath.Join(
		DefaultWalletDir, DefaultConfigFilename,
	)

	// DefaultLogDir is the default directory log files are written to.
	DefaultLogDir = filepath.Join(DefaultWalletDir, defaultLogDirname)

	// networks maps the accepted network names to their parameters.
	networks = map[string]*chaincfg.Params{
		"mainnet":  &chaincfg.MainNetParams,
		"testnet3": &chaincfg.TestNet3Params,
		"regtest":  &chaincfg.RegressionNetParams,
		"simnet":   &chaincfg.SimNetParams,
		"signet":   &chaincfg.SigNetParams,
	}
)

// Config holds the settings of a key ring.
//
//nolint:lll
type Config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir     string `long:"logdir" description:"Directory to log output."`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <global-level>,<subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`

	Network            string `long:"network" description:"The network address version bytes are taken from." choice:"mainnet" choice:"testnet3" choice:"regtest" choice:"simnet" choice:"signet"`
	Cipher             string `long:"cipher" description:"The cipher used to encrypt key bundles. aes reads and writes bundles of existing wallets." choice:"aes" choice:"snacl"`
	AddressSearchCount int    `long:"addresssearchcount" description:"Number of child addresses scanned when looking up the key of an address."`

	Scrypt *Scrypt `group:"scrypt" namespace:"scrypt"`

	Logging *build.LogConfig `group:"logging" namespace:"logging"`
}

// DefaultConfig returns a config with every value set to its default.
func DefaultConfig() Config {
	return Config{
		ConfigFile:         DefaultConfigFile,
		LogDir:             DefaultLogDir,
		DebugLevel:         DefaultDebugLevel,
		Network:            DefaultNetwork,
		Cipher:             keycrypt.CipherAES,
		AddressSearchCount: DefaultAddressSearchCount,
		Scrypt:             DefaultScrypt(),
		Logging:            build.DefaultLogConfig(),
	}
}

// LoadConfig builds a config from the defaults, the config file and the
// given command line arguments, in increasing order of precedence. A missing
// config file is not an error.
func LoadConfig(args []string) (*Config, error) {
	// Pre-parse the command line options to pick up an alternative config
	// file.
	preCfg := DefaultConfig()
	if _, err := flags.ParseArgs(&preCfg, args); err != nil {
		return nil, err
	}

	// Next, load any additional configuration options from the file.
	cfg := preCfg
	configFile := CleanAndExpandPath(preCfg.ConfigFile)
	if err := flags.IniParse(configFile, &cfg); err != nil {
		// A parse error is fatal, a missing file is not.
		if _, ok := err.(*flags.IniError); ok {
			return nil, err
		}
	}

	// Finally, parse the command line options again to ensure they take
	// precedence.
	if _, err := flags.ParseArgs(&cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the config for sane values and normalizes its paths.
func (c *Config) Validate() error {
	if _, ok := networks[c.Network]; !ok {
		return fmt.Errorf("unknown network %q", c.Network)
	}

	if c.Cipher != keycrypt.CipherAES && c.Cipher != keycrypt.CipherSnacl {
		return fmt.Errorf("unknown cipher %q", c.Cipher)
	}

	if c.AddressSearchCount < 1 ||
		c.AddressSearchCount > keychain.MaxAddressSearch {

		return fmt.Errorf("address search count must be in [1, %d], "+
			"got %d", keychain.MaxAddressSearch,
			c.AddressSearchCount)
	}

	if c.Scrypt == nil {
		c.Scrypt = DefaultScrypt()
	}
	if err := c.Scrypt.Validate(); err != nil {
		return err
	}

	if c.Logging == nil {
		c.Logging = build.DefaultLogConfig()
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}

	c.ConfigFile = CleanAndExpandPath(c.ConfigFile)
	c.LogDir = CleanAndExpandPath(c.LogDir)

	return nil
}

// NetParams returns the chain parameters of the configured network.
func (c *Config) NetParams() *chaincfg.Params {
	params, ok := networks[c.Network]
	if !ok {
		return &chaincfg.MainNetParams
	}

	return params
}

// LogFile returns the full path of the log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.LogDir, NormalizeNetwork(c.Network),
		defaultLogFilename)
}

// NormalizeNetwork returns the common name of a network type used to create
// file paths. This allows differently versioned networks to use the same path.
func NormalizeNetwork(network string) string {
	if strings.HasPrefix(network, "testnet") {
		return "testnet"
	}

	return network
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		path = strings.Replace(path, "~", homeDir(), 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

func homeDir() string {
	u, err := user.Current()
	if err == nil {
		return u.HomeDir
	}

	return os.Getenv("HOME")
}
