package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/mmprobe/internal/config"
	"github.com/muurk/mmprobe/internal/discovery"
	"github.com/muurk/mmprobe/internal/lifecycle"
	"github.com/muurk/mmprobe/internal/logging"
	"github.com/muurk/mmprobe/internal/mattermost"
	"github.com/muurk/mmprobe/internal/ping"
	"github.com/muurk/mmprobe/internal/signup"
	"github.com/muurk/mmprobe/internal/tui"
	"github.com/muurk/mmprobe/internal/ui"
)

const (
	formatDetailed = "detailed"
	formatJSON     = "json"
)

// Global flags
var (
	serverURL    string
	profileName  string
	configPath   string
	timeoutFlag  string
	logLevel     string
	logFile      string
	outputFormat string
)

// Command flags
var (
	signupEmail         string
	pingOnce            bool
	pingWatch           bool
	pingToken           string
	discoverScanTimeout int
	discoverPing        bool
)

// tokenEnvVar supplies the websocket token when --token is not given.
const tokenEnvVar = "MMPROBE_TOKEN"

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "Server URL (overrides profiles)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "Saved server profile to use")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&timeoutFlag, "timeout", "", "Request timeout, e.g. 5s; 0 disables (default from config, 10s)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", formatDetailed, "Output format for one-shot commands (detailed, json)")

	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(discoverCmd)
}

// session is the resolved server, client, and config shared by commands
type session struct {
	registry *config.Registry
	server   config.Resolved
	client   *mattermost.Client
	timeout  time.Duration
}

func newSession() (*session, error) {
	registry, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	server, err := registry.ResolveServer(serverURL, profileName)
	if err != nil {
		return nil, err
	}

	client, err := mattermost.NewClient(server.URL)
	if err != nil {
		return nil, err
	}
	if registry.Preferences != nil {
		client.SetUserAgent(registry.Preferences.UserAgent)
	}

	timeout, err := resolveTimeout(timeoutFlag, registry.Preferences)
	if err != nil {
		return nil, err
	}

	logging.Debug("Session resolved",
		zap.String("server", client.BaseURL()),
		zap.String("profile", server.Profile),
		zap.Duration("timeout", timeout),
	)
	return &session{registry: registry, server: server, client: client, timeout: timeout}, nil
}

// resolveTimeout prefers the flag over the configured preference
func resolveTimeout(flag string, prefs *config.Preferences) (time.Duration, error) {
	if flag == "" {
		return prefs.Timeout()
	}
	return (&config.Preferences{RequestTimeout: flag}).Timeout()
}

// recordPing saves a healthy ping against the active profile
func (s *session) recordPing(resp *mattermost.PingResponse) {
	if s.server.Profile == "" || resp == nil {
		return
	}
	s.registry.RecordPing(s.server.Profile, resp.Status, resp.DesktopLatestVersion, time.Now())
	if err := s.registry.Save(); err != nil {
		logging.Warn("Failed to save ping result", zap.String("profile", s.server.Profile), zap.Error(err))
	}
}

// signalContext is canceled on interrupt
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// hints turns an error into troubleshooting tips for result boxes
func hints(err error) []string {
	return ui.SplitHint(mattermost.GetTroubleshootingHint(err))
}

// capture records the last transport error so one-shot commands can show
// hints for the typed error rather than its message.
type capture struct {
	client *mattermost.Client
	err    error
}

func (c *capture) transport() lifecycle.Transport {
	return lifecycle.TransportFunc(func(ctx context.Context, req lifecycle.Request, dest any) error {
		c.err = c.client.Submit(ctx, req, dest)
		return c.err
	})
}

// settled converts a final model into an error for result boxes
func (c *capture) settled(lastError string) error {
	if lastError == "" {
		return nil
	}
	if c.err != nil {
		return c.err
	}
	return errors.New(lastError)
}

// signupCmd creates an account
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account on the server",
	Long: `Create an account with POST /api/v4/users.

Without --email an interactive form opens: type an email and press enter.
The email is used as the username and password of the new account.`,
	Example: `  # Interactive form against the default server
  mmprobe signup

  # Headless signup against a saved profile
  mmprobe signup --profile work --email someone@example.com`,
	RunE: runSignup,
}

func init() {
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Sign up with this email without opening the form")
}

func runSignup(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	s, err := newSession()
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("email") {
		if !ui.IsTerminal() {
			return fmt.Errorf("the signup form needs a terminal; pass --email to sign up headless")
		}
		runner := signup.NewRunner(s.client)
		runner.SetTimeout(s.timeout)
		final, err := tui.RunSignup(lifecycle.NewComponent(signup.Name, runner), s.client.BaseURL(), tea.WithAltScreen())
		if err != nil {
			return err
		}
		fmt.Println(signup.EmailLine(final))
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	c := &capture{client: s.client}
	runner := lifecycle.NewRunner[mattermost.SignupResponse](c.transport(), signup.BuildRequest(s.client))
	runner.SetTimeout(s.timeout)
	runner.SetContext(ctx)
	host := lifecycle.NewHost(lifecycle.NewComponent(signup.Name, runner), nil)
	host.Send(signup.EmailChanged(signupEmail))
	host.Send(signup.Submit())

	if outputFormat == formatJSON {
		final, err := host.RunUntilIdle(ctx)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"server":   s.client.BaseURL(),
			"email":    signupEmail,
			"response": final.LastResponse,
			"error":    final.LastError,
		})
	}

	r := ui.NewRunner(ui.RunnerConfig{
		Title:      "Sign Up",
		Command:    cmd.CommandPath() + " --email " + signupEmail,
		Params:     []ui.Detail{{Key: "Server", Value: s.client.BaseURL()}, {Key: "Email", Value: signupEmail}},
		TotalSteps: 1,
		StepNames:  []string{"POST " + mattermost.UsersPath},
		Hints:      hints,
	})
	_, err = r.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Detail, error) {
		onStep(1, "", ui.StepRunning, "")
		start := time.Now()
		final, err := host.RunUntilIdle(ctx)
		if err == nil {
			err = c.settled(final.LastError)
		}
		if err != nil {
			onStep(1, "", ui.StepFailed, mattermost.GetShortErrorMessage(err))
			return nil, err
		}
		onStep(1, "", ui.StepComplete, time.Since(start).Round(time.Millisecond).String())
		return []ui.Detail{
			{Key: "Status", Value: final.LastResponse.Status},
			{Key: "Account", Value: signup.EmailLine(final)},
		}, nil
	})
	return err
}

// pingCmd checks server health
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check server health",
	Long: `Check server health with GET /api/v4/system/ping.

The interactive widget pings on p or enter. With --watch it also listens
to the server event stream and pings again when the server reports a
configuration, license, or plugin change. --watch needs a session or
personal access token (--token or MMPROBE_TOKEN).

Successful pings against a saved profile are recorded in the config file.`,
	Example: `  # One-shot health check
  mmprobe ping --once

  # Watch a saved server
  MMPROBE_TOKEN=xxxx mmprobe ping --profile work --watch`,
	RunE: runPing,
}

func init() {
	pingCmd.Flags().BoolVar(&pingOnce, "once", false, "Ping once and print the result")
	pingCmd.Flags().BoolVar(&pingWatch, "watch", false, "Re-ping on server events (needs a token)")
	pingCmd.Flags().StringVar(&pingToken, "token", "", "Access token for --watch (default $"+tokenEnvVar+")")
	pingCmd.MarkFlagsMutuallyExclusive("once", "watch")
}

func runPing(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	s, err := newSession()
	if err != nil {
		return err
	}
	if pingOnce {
		return pingHeadless(cmd, s)
	}
	if !ui.IsTerminal() {
		return fmt.Errorf("the ping widget needs a terminal; pass --once for a one-shot check")
	}

	var events tui.EventSource
	if pingWatch {
		token := pingToken
		if token == "" {
			token = os.Getenv(tokenEnvVar)
		}
		if token == "" {
			return fmt.Errorf("--watch needs --token or %s", tokenEnvVar)
		}
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout(s.timeout))
		stream, err := s.client.DialEvents(ctx, token)
		cancel()
		if err != nil {
			return fmt.Errorf("connect to event stream: %w", err)
		}
		defer stream.Close()
		events = stream
	}

	runner := ping.NewRunner(s.client)
	runner.SetTimeout(s.timeout)
	final, err := tui.RunPing(lifecycle.NewComponent(ping.Name, runner), s.client.BaseURL(), events, tea.WithAltScreen())
	if err != nil {
		return err
	}
	if final.LastResponse != nil && final.LastResponse.Healthy() {
		s.recordPing(final.LastResponse)
	}
	fmt.Printf("%s: %s\n", s.client.BaseURL(), ping.Status(final))
	return nil
}

func dialTimeout(requestTimeout time.Duration) time.Duration {
	if requestTimeout <= 0 {
		return lifecycle.DefaultTimeout
	}
	return requestTimeout
}

func pingHeadless(cmd *cobra.Command, s *session) error {
	ctx, cancel := signalContext()
	defer cancel()

	c := &capture{client: s.client}
	runner := lifecycle.NewRunner[mattermost.PingResponse](c.transport(), ping.BuildRequest(s.client))
	runner.SetTimeout(s.timeout)
	runner.SetContext(ctx)
	host := lifecycle.NewHost(lifecycle.NewComponent(ping.Name, runner), nil)
	host.Send(ping.Trigger())

	if outputFormat == formatJSON {
		final, err := host.RunUntilIdle(ctx)
		if err != nil {
			return err
		}
		if final.LastResponse != nil && final.LastResponse.Healthy() {
			s.recordPing(final.LastResponse)
		}
		return printJSON(map[string]any{
			"server":   s.client.BaseURL(),
			"status":   ping.Status(final),
			"response": final.LastResponse,
			"error":    final.LastError,
		})
	}

	params := []ui.Detail{{Key: "Server", Value: s.client.BaseURL()}}
	if s.server.Profile != "" {
		params = append(params, ui.Detail{Key: "Profile", Value: s.server.Profile})
	}
	r := ui.NewRunner(ui.RunnerConfig{
		Title:      "Server Ping",
		Command:    cmd.CommandPath() + " --once",
		Params:     params,
		TotalSteps: 2,
		StepNames:  []string{"GET " + mattermost.PingPath, "Check status"},
		Hints:      hints,
	})

	var final ping.Model
	_, err := r.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Detail, error) {
		onStep(1, "", ui.StepRunning, "")
		start := time.Now()
		var err error
		final, err = host.RunUntilIdle(ctx)
		if err == nil {
			err = c.settled(final.LastError)
		}
		if err != nil {
			onStep(1, "", ui.StepFailed, mattermost.GetShortErrorMessage(err))
			onStep(2, "", ui.StepSkipped, "")
			return nil, err
		}
		onStep(1, "", ui.StepComplete, time.Since(start).Round(time.Millisecond).String())

		if !final.LastResponse.Healthy() {
			onStep(2, "", ui.StepFailed, final.LastResponse.Status)
			return nil, fmt.Errorf("server reported status %q", final.LastResponse.Status)
		}
		onStep(2, "", ui.StepComplete, final.LastResponse.Status)
		s.recordPing(final.LastResponse)
		return []ui.Detail{{Key: "Status", Value: final.LastResponse.Status}}, nil
	})
	if final.LastResponse != nil {
		fmt.Println(tui.VersionTable(*final.LastResponse))
	}
	return err
}

// discoverCmd finds servers on the local network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find Mattermost servers on the local network",
	Long: `Find Mattermost servers using mDNS/DNS-SD discovery.

Browses for _mattermost._tcp and _http._tcp services. With --ping each
result is pinged to confirm it is a Mattermost server. --scan-timeout bounds
the mDNS browse; the global --timeout bounds each ping.`,
	Example: `  # Scan with the configured timeout
  mmprobe discover

  # Longer scan, then ping every hit
  mmprobe discover --scan-timeout 15 --ping`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&discoverScanTimeout, "scan-timeout", 0, "mDNS scan timeout in seconds (default from config, 5)")
	discoverCmd.Flags().BoolVar(&discoverPing, "ping", false, "Ping each discovered server")
}

// discovered is one row of discover output
type discovered struct {
	Instance   string `json:"instance"`
	URL        string `json:"url"`
	Advertised bool   `json:"advertised"`
	Status     string `json:"status,omitempty"`
	Latency    string `json:"latency,omitempty"`
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	registry, err := config.Load(configPath)
	if err != nil {
		return err
	}
	scanTimeout := registry.Preferences.DiscoverDuration()
	if discoverScanTimeout > 0 {
		scanTimeout = time.Duration(discoverScanTimeout) * time.Second
	}
	requestTimeout, err := resolveTimeout(timeoutFlag, registry.Preferences)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	steps := []string{"Browse mDNS"}
	if discoverPing {
		steps = append(steps, "Ping discovered servers")
	}

	var rows []discovered
	operation := func(ctx context.Context, onStep ui.StepCallback) ([]ui.Detail, error) {
		onStep(1, "", ui.StepRunning, "")
		servers, err := discovery.Scan(ctx, scanTimeout)
		if err != nil {
			onStep(1, "", ui.StepFailed, "")
			return nil, err
		}
		onStep(1, "", ui.StepComplete, strconv.Itoa(len(servers))+" found")

		for _, srv := range servers {
			rows = append(rows, discovered{Instance: srv.Instance, URL: srv.BaseURL(), Advertised: srv.Advertised()})
		}

		if discoverPing {
			onStep(2, "", ui.StepRunning, "")
			healthy := 0
			for i := range rows {
				rows[i].Status, rows[i].Latency = checkServer(ctx, rows[i].URL, requestTimeout)
				if rows[i].Status == "healthy" {
					healthy++
				}
			}
			onStep(2, "", ui.StepComplete, fmt.Sprintf("%d healthy", healthy))
		}
		return []ui.Detail{{Key: "Servers", Value: strconv.Itoa(len(rows))}}, nil
	}

	if outputFormat == formatJSON {
		if _, err := operation(ctx, func(int, string, ui.StepStatus, string) {}); err != nil {
			return err
		}
		return printJSON(rows)
	}

	r := ui.NewRunner(ui.RunnerConfig{
		Title:      "Server Discovery",
		Command:    cmd.CommandPath(),
		Params:     []ui.Detail{{Key: "Timeout", Value: scanTimeout.String()}},
		TotalSteps: len(steps),
		StepNames:  steps,
	})
	if _, err := r.Run(ctx, operation); err != nil {
		return err
	}

	if len(rows) == 0 {
		ui.NewPrinter(nil).PrintWarning("No servers found",
			ui.Detail{Key: "Tip", Value: "Try a longer --scan-timeout"},
			ui.Detail{Key: "Tip", Value: "Or pass --server with the address directly"},
		)
		return nil
	}

	headers := []string{"Instance", "URL", "Mattermost"}
	if discoverPing {
		headers = append(headers, "Status", "Latency")
	}
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := []string{row.Instance, row.URL, yesNo(row.Advertised)}
		if discoverPing {
			line = append(line, row.Status, row.Latency)
		}
		table = append(table, line)
	}
	ui.NewPrinter(nil).PrintTable(headers, table)
	fmt.Println("Use 'mmprobe profile add <name> <url>' to save a server")
	return nil
}

// checkServer pings one discovered server through the same state machine
// the widget uses.
func checkServer(ctx context.Context, rawURL string, timeout time.Duration) (status, latency string) {
	client, err := mattermost.NewClient(rawURL)
	if err != nil {
		return "invalid url", ""
	}
	runner := ping.NewRunner(client)
	runner.SetTimeout(timeout)
	runner.SetContext(ctx)
	host := lifecycle.NewHost(lifecycle.NewComponent(ping.Name, runner), nil)
	host.Send(ping.Trigger())

	start := time.Now()
	final, err := host.RunUntilIdle(ctx)
	if err != nil {
		return "canceled", ""
	}
	return ping.Status(final), time.Since(start).Round(time.Millisecond).String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
