// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/retr0h/gateway/internal/cli"
	"github.com/retr0h/gateway/internal/config"
	"github.com/retr0h/gateway/internal/telemetry"
)

var (
	appConfig  config.Config
	logger     = slog.New(slog.NewTextHandler(os.Stdout, nil))
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "An API gateway with rate limiting, caching, and audit logging.",
	Long: `An API gateway fronting independently deployed backend services.
It verifies caller identity, enforces request-rate budgets against a shared
store, serves cached responses scoped per caller, and emits a durable audit
trail for every request.

https://github.com/retr0h/gateway
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable or disable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Enable JSON output")

	rootCmd.PersistentFlags().
		StringP("gateway-file", "f", "/etc/gateway/gateway.yaml", "Path to config file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("gatewayFile", rootCmd.PersistentFlags().Lookup("gateway-file"))
}

func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("gateway")
	viper.SetConfigFile(viper.GetString("gatewayFile"))

	setConfigDefaults()

	if err := viper.ReadInConfig(); err != nil {
		cli.LogFatal(logger, "failed to read config", err, "gatewayFile", viper.ConfigFileUsed())
	}

	if err := viper.Unmarshal(&appConfig); err != nil {
		cli.LogFatal(logger, "failed to unmarshal config", err, "gatewayFile", viper.ConfigFileUsed())
	}

	// Auto-enable tracing in debug mode so trace_id appears in log lines.
	// No exporter is set — just log correlation, no span dumps.
	if appConfig.Debug && !appConfig.Telemetry.Tracing.Enabled {
		appConfig.Telemetry.Tracing.Enabled = true
	}

	err := config.Validate(&appConfig)
	if err != nil {
		cli.LogFatal(logger, "validation failed", err, "gatewayFile", viper.ConfigFileUsed())
	}
}

// setConfigDefaults registers defaults for everything the config file may
// omit. Rate limit and cache defaults match the documented budgets: bucket
// of 5 refilling 1/s, window of 10 per minute, 60s cache TTL.
func setConfigDefaults() {
	viper.SetDefault("gateway.port", 3000)
	viper.SetDefault("gateway.backend_timeout", "10s")

	viper.SetDefault("redis.addr", "localhost:6379")

	viper.SetDefault("rate_limit.bucket.capacity", 5)
	viper.SetDefault("rate_limit.bucket.refill_per_second", 1)
	viper.SetDefault("rate_limit.window.limit", 10)
	viper.SetDefault("rate_limit.window.duration", "1m")
	viper.SetDefault("rate_limit.key_by", "ip")

	viper.SetDefault("cache.ttl", "60s")

	viper.SetDefault("nats.connection.host", "localhost")
	viper.SetDefault("nats.connection.port", 4222)
	viper.SetDefault("nats.connection.client_name", "gateway")
	viper.SetDefault("nats.stream.name", "AUDIT")
	viper.SetDefault("nats.stream.subject", "audit.events")
	viper.SetDefault("nats.stream.storage", "file")
	viper.SetDefault("nats.stream.max_age", "720h")
	viper.SetDefault("nats.consumer.name", "audit-worker")
	viper.SetDefault("nats.consumer.ack_wait", "30s")
	viper.SetDefault("nats.consumer.max_deliver", 5)
	viper.SetDefault("nats.consumer.reconnect_wait", "5s")
	viper.SetDefault("nats.audit_kv.bucket", "audit_records")
	viper.SetDefault("nats.audit_kv.storage", "file")
}

func initLogger() {
	logLevel := slog.LevelInfo
	if viper.GetBool("debug") {
		logLevel = slog.LevelDebug
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.Kitchen,
			NoColor:    !term.IsTerminal(int(os.Stdout.Fd())),
		})
	}

	handler = telemetry.NewTraceHandler(handler)
	logger = slog.New(handler)
}
