package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// VerifyDateLayout is the layout of the overlay verified date (e.g. 20170509)
const VerifyDateLayout = "20060102"

// Config represents the application configuration
type Config struct {
	Report ReportConfig `mapstructure:"report"`
	Input  InputConfig  `mapstructure:"input"`
	Sheets SheetsConfig `mapstructure:"sheets"`
	Layout LayoutConfig `mapstructure:"layout"`
	Output OutputConfig `mapstructure:"output"`
}

// ReportConfig holds the people and versions printed into the document
type ReportConfig struct {
	Reviser         string `mapstructure:"reviser"`          // Who releases the document
	Reviewer        string `mapstructure:"reviewer"`         // Who reviews the document
	TestPlanVersion string `mapstructure:"testplan_version"` // Version number of the new test plan
	VerifyDate      string `mapstructure:"verify_date"`      // Overlay verified date, YYYYMMDD
}

// InputConfig holds the paths of the template and the station artifacts
type InputConfig struct {
	Source   string   `mapstructure:"source"`    // Source .xlsx verification document
	CSVLog   string   `mapstructure:"csv_log"`   // .csv file from the CSVLOG folder
	ModemLog string   `mapstructure:"modem_log"` // .txt file from the MODEM folder
	CSVFile  string   `mapstructure:"csv_file"`  // .csv file from the CSV folder
	Encoding []string `mapstructure:"encoding"`  // Encoding hints for the logs (e.g., ["utf-8", "big5"])
}

// SheetsConfig holds the worksheet names of the template
type SheetsConfig struct {
	Version             string `mapstructure:"version"`
	ProgramVerification string `mapstructure:"program_verification"`
	CSVLogComparison    string `mapstructure:"csv_log_comparison"`
	UARTLogCheck        string `mapstructure:"uart_log_check"`
	CSVFile             string `mapstructure:"csv_file"`
}

// LayoutConfig holds tunables of the generated layout
type LayoutConfig struct {
	HistoryRow       int    `mapstructure:"history_row"`        // Row where the new verification entry is inserted
	MarginBottomRows int    `mapstructure:"margin_bottom_rows"` // Gray rows kept under the CSV log data
	ColumnWidth      int    `mapstructure:"column_width"`       // Base column width of the UART sections
	FontName         string `mapstructure:"font_name"`          // Font of generated data cells
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir            string `mapstructure:"dir"`             // Output directory
	Notice         bool   `mapstructure:"notice"`          // Also write a Word release notice
	NoticeTemplate string `mapstructure:"notice_template"` // .docx template of the notice (built-in when empty)
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses sensible defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			// Config file not found - flags have to provide the inputs
			fmt.Println("Config file not found. Using defaults and command-line flags.")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("report.reviser", defaultReviser())
	v.SetDefault("report.reviewer", "Doris")
	v.SetDefault("report.testplan_version", "")
	v.SetDefault("report.verify_date", "")

	v.SetDefault("input.encoding", []string{"utf-8", "big5", "euc-kr"})

	// Sheet names of the QT verification template (note the trailing space)
	v.SetDefault("sheets.version", "Version ")
	v.SetDefault("sheets.program_verification", "Program Verification")
	v.SetDefault("sheets.csv_log_comparison", "CSV log comparison")
	v.SetDefault("sheets.uart_log_check", "UART Log Check")
	v.SetDefault("sheets.csv_file", "CSV file")

	v.SetDefault("layout.history_row", 3)
	v.SetDefault("layout.margin_bottom_rows", 2)
	v.SetDefault("layout.column_width", 50)
	v.SetDefault("layout.font_name", "Times New Roman")

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.notice", false)
	v.SetDefault("output.notice_template", "")
}

// defaultReviser returns the capitalized login name of the current user
func defaultReviser() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "Unknown"
	}
	name := filepath.Base(filepath.ToSlash(u.Username))
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}

// Normalize converts relative paths to absolute paths
func (c *Config) Normalize() error {
	paths := []*string{
		&c.Input.Source, &c.Input.CSVLog, &c.Input.ModemLog, &c.Input.CSVFile,
		&c.Output.Dir, &c.Output.NoticeTemplate,
	}
	for _, p := range paths {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	inputs := []struct {
		name string
		path string
	}{
		{"source", c.Input.Source},
		{"csv_log", c.Input.CSVLog},
		{"modem_log", c.Input.ModemLog},
		{"csv_file", c.Input.CSVFile},
	}
	for _, in := range inputs {
		if in.path == "" {
			return fmt.Errorf("input.%s is required", in.name)
		}
		if _, err := os.Stat(in.path); os.IsNotExist(err) {
			return fmt.Errorf("input.%s does not exist: %s", in.name, in.path)
		}
	}

	if c.Report.TestPlanVersion == "" {
		return fmt.Errorf("report.testplan_version is required")
	}
	if _, err := c.VerifyDate(); err != nil {
		return err
	}

	if c.Output.NoticeTemplate != "" {
		if _, err := os.Stat(c.Output.NoticeTemplate); os.IsNotExist(err) {
			return fmt.Errorf("output.notice_template does not exist: %s", c.Output.NoticeTemplate)
		}
	}

	if c.Layout.HistoryRow < 1 {
		return fmt.Errorf("layout.history_row must be at least 1, got %d", c.Layout.HistoryRow)
	}

	return nil
}

// VerifyDate parses report.verify_date
func (c *Config) VerifyDate() (time.Time, error) {
	d, err := time.Parse(VerifyDateLayout, c.Report.VerifyDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("report.verify_date must look like 20170509, got %q", c.Report.VerifyDate)
	}
	return d, nil
}

// GetOutputPath returns the full path of the verification document
func (c *Config) GetOutputPath(station, versionName string) string {
	return filepath.Join(c.Output.Dir, fmt.Sprintf("QTVerification_%s_%s.xlsx", station, versionName))
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== QT Verify Configuration ===")
	fmt.Printf("Source Template:  %s\n", c.Input.Source)
	fmt.Printf("CSV Log:          %s\n", c.Input.CSVLog)
	fmt.Printf("Modem Log:        %s\n", c.Input.ModemLog)
	fmt.Printf("CSV File:         %s\n", c.Input.CSVFile)
	fmt.Printf("Test Plan:        %s\n", c.Report.TestPlanVersion)
	fmt.Printf("Verify Date:      %s\n", c.Report.VerifyDate)
	fmt.Printf("Reviser:          %s\n", c.Report.Reviser)
	fmt.Printf("Reviewer:         %s\n", c.Report.Reviewer)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Println("===============================")
}
