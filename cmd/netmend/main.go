// Package main is the CLI entry point for netmend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"netmend/internal/config"
	"netmend/internal/domain"
	"netmend/internal/infra"
	"netmend/internal/remedy"
	"netmend/internal/render"
	"netmend/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "netmend",
	Short: "Diagnose and repair failing network connectivity",
	Long: `netmend inspects the current Wi-Fi or mobile-broadband state, classifies
symptoms into discrete issues, derives an ordered repair plan, and executes
it through a privilege-aware command runner, retesting connectivity after
each step and stopping as soon as the connection comes back.

Without root access it still diagnoses in a degraded mode and, for mobile
data, falls back to a plain radio toggle.`,
	Version: Version,
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Inspect network state and list detected issues",
	Long: `Runs the diagnostic pass only: reachability probe, adapter state, VPN
presence, and (with root) firewall rules, link state and a DNS health check.
No device state is changed.`,
	RunE: runDiagnose,
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Diagnose, then execute the repair plan step by step",
	Long: `Diagnoses first, then derives and executes an ordered repair plan.
Connectivity is retested after every state-changing step; the run stops
early as soon as the connection is restored.`,
	RunE: runRepair,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current network state and reachability",
	RunE:  runStatus,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	configPath  string
	networkFlag string
	verbose     bool
	noColor     bool
	jsonOutput  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	diagnoseCmd.Flags().StringVar(&networkFlag, "network", "", "Network to inspect (wifi/mobile, default: autodetect)")
	repairCmd.Flags().StringVar(&networkFlag, "network", "", "Network to repair (wifi/mobile, default: autodetect)")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// toolkit bundles the wired components for one invocation.
type toolkit struct {
	cfg           config.Config
	inspector     *infra.HostInspector
	prober        *infra.PingProber
	diagnostician *usecase.Diagnostician
	remediator    *usecase.Remediator
	logger        *zap.Logger
}

func buildToolkit() (*toolkit, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
	}

	privilege := infra.NewBrokerPrivilegeResolver(cfg.ElevationBroker, cfg.ProbeTimeout.Std())
	executor := infra.NewShellExecutor(privilege, cfg.ElevationBroker)
	prober := infra.NewPingProber(cfg.ProbeTarget, cfg.ProbeTimeout.Std())
	inspector := infra.NewHostInspector(cfg.WifiInterface, cfg.MobileInterface)

	diagnostician := usecase.NewDiagnostician(
		executor, privilege, prober, inspector,
		infra.NewIptablesAnalyzer(), infra.NewProcessFinder(),
		cfg.WifiInterface, cfg.CommandTimeout.Std(), cfg.PingPackets, logger)

	remediator := usecase.NewRemediator(
		diagnostician,
		remedy.NewPlanner(cfg.WifiInterface, cfg.MobileInterface),
		executor, prober, privilege, infra.NewMobileDataToggler(),
		cfg.CommandTimeout.Std(), cfg.SettleDelay.Std(), logger)

	return &toolkit{
		cfg:           cfg,
		inspector:     inspector,
		prober:        prober,
		diagnostician: diagnostician,
		remediator:    remediator,
		logger:        logger,
	}, nil
}

// resolveKind maps the --network flag, autodetecting when it is empty.
func (t *toolkit) resolveKind() (domain.NetworkKind, error) {
	switch networkFlag {
	case "":
		return t.inspector.ActiveNetworkKind(), nil
	case "wifi":
		return domain.NetworkWifi, nil
	case "mobile":
		return domain.NetworkMobile, nil
	default:
		return "", fmt.Errorf("unknown network %q (want wifi or mobile)", networkFlag)
	}
}

// signalContext cancels on SIGINT/SIGTERM so an in-flight run stops between
// steps instead of being killed mid-command.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	t, err := buildToolkit()
	if err != nil {
		return err
	}
	defer func() { _ = t.logger.Sync() }()

	kind, err := t.resolveKind()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	issues, events := t.diagnostician.Diagnose(ctx, kind)

	r := render.New(os.Stdout, noColor)
	r.Events(events)
	fmt.Printf("\n%d issue(s) detected on %s\n", len(issues), kind)
	return nil
}

func runRepair(cmd *cobra.Command, args []string) error {
	t, err := buildToolkit()
	if err != nil {
		return err
	}
	defer func() { _ = t.logger.Sync() }()

	kind, err := t.resolveKind()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	events := t.remediator.Run(ctx, kind)
	render.New(os.Stdout, noColor).Events(events)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	t, err := buildToolkit()
	if err != nil {
		return err
	}
	defer func() { _ = t.logger.Sync() }()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Print(t.inspector.DescribeState())
	if t.prober.IsReachable(ctx) {
		fmt.Println("Internet: reachable")
	} else {
		fmt.Println("Internet: unreachable")
	}
	return nil
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("netmend %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
