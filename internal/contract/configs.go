package contract

import (
	"fmt"
	"maps"
	"runtime"
	"strings"
	"time"

	"github.com/modelbay/templatrend/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultTimeout     = 10 * time.Minute
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateFormat is the accepted representation for period-start inputs.
const DateFormat = "2006-01-02"

// TrendWeightsRaw holds custom trend-score weights from the YAML config
// file. Use float64 pointers for optional fields.
type TrendWeightsRaw struct {
	Usage       *float64 `mapstructure:"usage"`
	Users       *float64 `mapstructure:"users"`
	Success     *float64 `mapstructure:"success"`
	Rating      *float64 `mapstructure:"rating"`
	Favorites   *float64 `mapstructure:"favorites"`
	Performance *float64 `mapstructure:"performance"`
}

// Config holds the runtime configuration for the engine.
// This struct remains the "final, validated" config.
type Config struct {
	Period       schema.Period
	PeriodStart  time.Time           // zero = derive from current time
	TemplateType schema.TemplateType // empty = both families

	ResultLimit int
	Workers     int
	Precision   int
	Timeout     time.Duration

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	StoreBackend   schema.StoreBackend
	StoreDBConnect string // Please use env var as this is plaintext

	// TrendWeights is the final weight map, computed from defaults + custom overrides.
	TrendWeights map[schema.TrendFactor]float64

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Period         string `mapstructure:"period"`
	PeriodStart    string `mapstructure:"period-start"`
	TemplateType   string `mapstructure:"type"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Timeout        string `mapstructure:"timeout"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Custom weights from config file ---
	Weights TrendWeightsRaw `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.TrendWeights != nil {
		clone.TrendWeights = make(map[schema.TrendFactor]float64, len(c.TrendWeights))
		maps.Copy(clone.TrendWeights, c.TrendWeights)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validatePeriodInputs(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processTrendWeights(cfg, input); err != nil {
		return err
	}
	return nil
}

// validatePeriodInputs parses the period, optional period-start and template type.
func validatePeriodInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Period = schema.Period(strings.ToLower(input.Period))
	if _, ok := schema.ValidPeriods[cfg.Period]; !ok {
		return fmt.Errorf("invalid period '%s'. must be daily, weekly, monthly, yearly", input.Period)
	}

	if input.PeriodStart != "" {
		t, err := time.Parse(DateFormat, input.PeriodStart)
		if err != nil {
			return fmt.Errorf("invalid period-start '%s'. expected YYYY-MM-DD", input.PeriodStart)
		}
		// Snap to the canonical boundary so off-boundary inputs still hit
		// the right bucket.
		start, err := schema.PeriodStart(cfg.Period, t.UTC())
		if err != nil {
			return err
		}
		cfg.PeriodStart = start
	}

	if input.TemplateType != "" {
		cfg.TemplateType = schema.TemplateType(strings.ToLower(input.TemplateType))
		if _, ok := schema.ValidTemplateTypes[cfg.TemplateType]; !ok {
			return fmt.Errorf("invalid template type '%s'. must be personal or verified", input.TemplateType)
		}
	}
	return nil
}

// validateSimpleInputs validates limits, workers, precision, timeout and output.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Limit < 1 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxResultLimit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	cfg.Workers = input.Workers

	if input.Precision < 0 || input.Precision > 2 {
		return fmt.Errorf("precision must be between 0 and 2")
	}
	cfg.Precision = input.Precision

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout '%s'. expected a positive Go duration like 5m", input.Timeout)
		}
		cfg.Timeout = d
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output '%s'. must be text, csv, json", input.Output)
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	cfg.UseEmojis = parseYesNo(input.Emoji, false)
	cfg.UseColors = parseYesNo(input.Color, true)
	return nil
}

// validateBackendConfig validates the store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.StoreBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// processTrendWeights merges custom weight overrides over the defaults and
// checks that the result still forms a convex blend.
func processTrendWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.DefaultTrendWeights()

	overrides := map[schema.TrendFactor]*float64{
		schema.FactorUsage:       input.Weights.Usage,
		schema.FactorUsers:       input.Weights.Users,
		schema.FactorSuccess:     input.Weights.Success,
		schema.FactorRating:      input.Weights.Rating,
		schema.FactorFavorites:   input.Weights.Favorites,
		schema.FactorPerformance: input.Weights.Performance,
	}
	for factor, v := range overrides {
		if v == nil {
			continue
		}
		if *v < 0 || *v > 1 {
			return fmt.Errorf("weight for %s must be between 0 and 1, got %v", factor, *v)
		}
		weights[factor] = *v
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("trend weights must sum to 1.0, got %.4f", sum)
	}

	cfg.TrendWeights = weights
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.StoreBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres://") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' or use the postgres:// URL form")
		}
	}
	return nil
}

// parseYesNo interprets a yes/no style flag value.
func parseYesNo(v string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "on", "1":
		return true
	case "no", "false", "off", "0":
		return false
	default:
		return fallback
	}
}
