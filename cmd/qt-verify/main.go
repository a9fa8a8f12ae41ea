package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"qt-verify/internal/config"
	"qt-verify/internal/logger"
	"qt-verify/internal/notice"
	"qt-verify/internal/report"
	"qt-verify/internal/ui"

	"github.com/xuri/excelize/v2"
)

const (
	appName    = "QT Verify"
	appVersion = "1.0.0"
	appDesc    = "Creates the QT overlay verification document from a template and station logs"
)

var (
	configPath  string
	verbose     bool
	showVersion bool
	outputDir   string
	writeNotice bool

	source   string
	csvLog   string
	modemLog string
	csvFile  string
	testPlan string
	date     string
	reviser  string
	reviewer string
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.StringVar(&outputDir, "output", "", "Override output directory from config")
	flag.BoolVar(&writeNotice, "notice", false, "Also write a Word release notice")

	flag.StringVar(&source, "source", "", "Path of source .xlsx verification document")
	flag.StringVar(&source, "s", "", "Path of source .xlsx verification document (shorthand)")
	flag.StringVar(&csvLog, "csvlog", "", "Path of .csv file in CSVLOG folder")
	flag.StringVar(&csvLog, "l", "", "Path of .csv file in CSVLOG folder (shorthand)")
	flag.StringVar(&modemLog, "modem", "", "Path of .txt file in MODEM folder")
	flag.StringVar(&modemLog, "m", "", "Path of .txt file in MODEM folder (shorthand)")
	flag.StringVar(&csvFile, "csv", "", "Path of .csv file in CSV folder")
	flag.StringVar(&csvFile, "c", "", "Path of .csv file in CSV folder (shorthand)")
	flag.StringVar(&testPlan, "ver", "", "Version number of the new test plan")
	flag.StringVar(&testPlan, "v", "", "Version number of the new test plan (shorthand)")
	flag.StringVar(&date, "date", "", "Overlay verified date, format: 20170509")
	flag.StringVar(&date, "d", "", "Overlay verified date (shorthand)")
	flag.StringVar(&reviser, "reviser", "", "Who releases this verification document (default: current user)")
	flag.StringVar(&reviser, "r", "", "Who releases this verification document (shorthand)")
	flag.StringVar(&reviewer, "reviewer", "", "The reviewer name (default: Doris)")
	flag.StringVar(&reviewer, "w", "", "The reviewer name (shorthand)")
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ PANIC: %v\n", r)
			os.Exit(1)
		}
	}()

	os.Exit(run())
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	printBanner()

	// 1. Initialize
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}
	applyFlags(cfg)

	if err := cfg.Normalize(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		flag.Usage()
		return 1
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	logPath := filepath.Join(cfg.Output.Dir, "qt_verify.log")
	if err := logger.Init(os.Stdout, logPath, verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if logger.IsVerbose() {
		cfg.Print()
	}

	path, err := generate(cfg)
	if err != nil {
		logger.Error("Generation failed: %v (details in %s)", err, logger.GetLogFilePath())
		return 1
	}

	logger.Info("✅ Verification document '%s' is successfully created!", filepath.Base(path))
	logger.Info("Log written to %s", logger.GetLogFilePath())
	return 0
}

// applyFlags lets command-line flags override the configuration
func applyFlags(cfg *config.Config) {
	overrides := []struct {
		flag string
		dst  *string
	}{
		{source, &cfg.Input.Source},
		{csvLog, &cfg.Input.CSVLog},
		{modemLog, &cfg.Input.ModemLog},
		{csvFile, &cfg.Input.CSVFile},
		{testPlan, &cfg.Report.TestPlanVersion},
		{date, &cfg.Report.VerifyDate},
		{reviser, &cfg.Report.Reviser},
		{reviewer, &cfg.Report.Reviewer},
		{outputDir, &cfg.Output.Dir},
	}
	for _, o := range overrides {
		if o.flag != "" {
			*o.dst = o.flag
		}
	}
	if writeNotice {
		cfg.Output.Notice = true
	}
}

func generate(cfg *config.Config) (string, error) {
	pipeline := ui.NewPipeline(ui.ReportPhases(cfg.Output.Notice))

	// --- Loading ---
	loadBar := pipeline.NextPhase(2)
	logger.Info("Opening source workbook '%s'", filepath.Base(cfg.Input.Source))
	f, err := excelize.OpenFile(cfg.Input.Source)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", cfg.Input.Source, err)
	}
	defer f.Close()
	loadBar.Increment()

	inputs, err := report.ReadInputs(cfg)
	if err != nil {
		return "", err
	}
	loadBar.Increment()

	builder, err := report.NewBuilder(cfg, f, inputs, time.Now())
	if err != nil {
		return "", err
	}
	pipeline.Finish()
	builder.Summary()

	// --- Sheet steps ---
	for _, step := range builder.Steps() {
		bar := pipeline.NextPhase(1)
		if err := builder.Run(step); err != nil {
			return "", err
		}
		bar.Increment()
	}

	// --- Saving ---
	saveBar := pipeline.NextPhase(1)
	path, err := builder.Save()
	if err != nil {
		return "", err
	}
	saveBar.Increment()

	if cfg.Output.Notice {
		noticeBar := pipeline.NextPhase(1)
		if err := writeReleaseNotice(cfg, builder, path); err != nil {
			return "", err
		}
		noticeBar.Increment()
	}

	pipeline.Finish()
	return path, nil
}

func writeReleaseNotice(cfg *config.Config, b *report.Builder, documentPath string) error {
	testTime := b.Info.TotalTestTime
	if secs, err := b.Info.TestTimeSeconds(); err == nil {
		testTime = strconv.FormatFloat(secs, 'f', -1, 64)
	}

	out := notice.PathFor(documentPath)
	err := notice.Write(out, cfg.Output.NoticeTemplate, notice.Fields{
		Station:      b.Info.Station,
		Version:      b.VersionName,
		VerifyDate:   b.VerifyDate,
		ReleaseDate:  b.ReleaseDate,
		SerialNumber: b.Info.SerialNumber,
		DiagsVersion: b.Info.DiagsVersion,
		TestTime:     testTime,
		Reviser:      cfg.Report.Reviser,
		Reviewer:     cfg.Report.Reviewer,
	})
	if err != nil {
		return err
	}
	logger.Info("Release notice written to '%s'", filepath.Base(out))
	return nil
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                      QT VERIFY v1.0.0                     ║
║         QT Overlay Verification Document Generator        ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
