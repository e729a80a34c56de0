package elgamal

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultBits is the modulus size used when nothing else is configured.
	DefaultBits = 1024

	// DefaultRounds is the number of Miller-Rabin rounds per candidate.
	DefaultRounds = 5

	// MinBits is the smallest modulus size that can satisfy p > 256.
	MinBits = 9

	// DefaultKeyDir is where key files are written when no directory is given.
	DefaultKeyDir = "."
)

// Session modes accepted by Config.SessionMode.
const (
	SessionPerMessage = "per-message"
	SessionPerByte    = "per-byte"
	SessionFixed      = "fixed"
)

// Config expresses the knobs shared by key generation, the cipher engine and
// the key store. The zero value is not usable; start from DefaultConfig or
// LoadConfig.
type Config struct {
	// Bits is the bit length of generated moduli.
	Bits int

	// MaxAttempts caps every randomized search. Zero keeps the searches
	// unbounded; they still honour context cancellation.
	MaxAttempts int

	// Rounds is the number of Miller-Rabin witnesses per candidate.
	Rounds int

	// SessionMode selects how the cipher engine picks session keys.
	SessionMode string

	// KeyDir is the directory holding id_elgamal and id_elgamal.pub.
	KeyDir string
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{
		Bits:        DefaultBits,
		MaxAttempts: 0,
		Rounds:      DefaultRounds,
		SessionMode: SessionPerMessage,
		KeyDir:      DefaultKeyDir,
	}
}

// LoadConfig reads a .env file from the working directory when present and
// then overlays ELGAMAL_* environment variables on DefaultConfig.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	var err error
	if cfg.Bits, err = envIntOrDefault("ELGAMAL_BITS", cfg.Bits); err != nil {
		return Config{}, err
	}
	if cfg.MaxAttempts, err = envIntOrDefault("ELGAMAL_MAX_ATTEMPTS", cfg.MaxAttempts); err != nil {
		return Config{}, err
	}
	if cfg.Rounds, err = envIntOrDefault("ELGAMAL_MR_ROUNDS", cfg.Rounds); err != nil {
		return Config{}, err
	}
	cfg.SessionMode = envOrDefault("ELGAMAL_SESSION_MODE", cfg.SessionMode)
	cfg.KeyDir = envOrDefault("ELGAMAL_KEY_DIR", cfg.KeyDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs basic sanity checks on the configuration.
func (c Config) Validate() error {
	// p > 256 needs at least 9 bits.
	if c.Bits < MinBits {
		return Errorf("Config.Validate", ErrInvalidParameter, "bits %d below %d", c.Bits, MinBits)
	}
	if c.MaxAttempts < 0 {
		return Errorf("Config.Validate", ErrInvalidParameter, "negative max attempts %d", c.MaxAttempts)
	}
	if c.Rounds < 1 {
		return Errorf("Config.Validate", ErrInvalidParameter, "rounds %d below 1", c.Rounds)
	}
	switch c.SessionMode {
	case SessionPerMessage, SessionPerByte, SessionFixed:
	default:
		return Errorf("Config.Validate", ErrInvalidParameter, "unknown session mode %q", c.SessionMode)
	}
	if c.KeyDir == "" {
		return Errorf("Config.Validate", ErrInvalidParameter, "empty key directory")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, Errorf("LoadConfig", ErrInvalidParameter, "%s: %v", key, err)
	}
	return n, nil
}
