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
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"

	"github.com/retr0h/gateway/internal/audit"
	"github.com/retr0h/gateway/internal/cache"
	"github.com/retr0h/gateway/internal/cli"
	"github.com/retr0h/gateway/internal/config"
	"github.com/retr0h/gateway/internal/gateway"
	"github.com/retr0h/gateway/internal/messaging"
	"github.com/retr0h/gateway/internal/ratelimit"
	"github.com/retr0h/gateway/internal/telemetry"
)

// serverStartCmd represents the serverStart command.
var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the server",
	Long: `Start the gateway server.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			"gateway",
			appConfig.Telemetry.Tracing,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize tracer", err)
		}

		metricsHandler, metricsPath, shutdownMeter, err := telemetry.InitMeter(
			appConfig.Telemetry.Metrics,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize meter", err)
		}

		redisClient := cli.NewRedisClient(appConfig.Redis)
		limitStore := ratelimit.NewRedisStore(redisClient)
		cacheStore := cache.NewRedisStore(
			redisClient,
			config.DurationOr(appConfig.Cache.TTL, 60*time.Second),
		)

		nc, js, err := cli.ConnectNATS(
			appConfig.NATS.Connection,
			config.DurationOr(appConfig.NATS.Consumer.ReconnectWait, 5*time.Second),
		)
		if err != nil {
			cli.LogFatal(logger, "failed to connect to NATS", err)
		}

		// Declare the audit stream up front so events published before the
		// worker first runs are retained. Failure is not fatal: the worker
		// declares the same stream inside its retry loop, and publishes are
		// dropped and logged until it exists.
		_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     appConfig.NATS.Stream.Name,
			Subjects: []string{appConfig.NATS.Stream.Subject},
			Storage:  cli.ParseJetstreamStorageType(appConfig.NATS.Stream.Storage),
			MaxAge:   config.DurationOr(appConfig.NATS.Stream.MaxAge, 30*24*time.Hour),
			MaxMsgs:  appConfig.NATS.Stream.MaxMsgs,
		})
		if err != nil {
			logger.Warn(
				"audit stream declaration deferred",
				slog.String("error", err.Error()),
			)
		}

		publisher := audit.NewQueuePublisher(
			logger,
			js,
			appConfig.NATS.Stream.Subject,
		)

		// The audit bucket binds on first use so the admin read surface
		// recovers once NATS is reachable.
		recorder := audit.NewLazyKVStore(logger, func(ctx context.Context) (messaging.KV, error) {
			return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
				Bucket:   appConfig.NATS.AuditKV.Bucket,
				TTL:      config.DurationOr(appConfig.NATS.AuditKV.TTL, 0),
				MaxBytes: appConfig.NATS.AuditKV.MaxBytes,
				Storage:  cli.ParseJetstreamStorageType(appConfig.NATS.AuditKV.Storage),
			})
		})

		srv := gateway.New(
			appConfig,
			logger,
			gateway.WithLimiters(
				ratelimit.NewWindowLimiter(
					limitStore,
					appConfig.RateLimit.Window.Limit,
					config.DurationOr(appConfig.RateLimit.Window.Duration, time.Minute),
				),
				ratelimit.NewBucketLimiter(
					limitStore,
					appConfig.RateLimit.Bucket.Capacity,
					appConfig.RateLimit.Bucket.RefillPerSecond,
				),
			),
			gateway.WithCacheStore(cacheStore),
			gateway.WithPublisher(publisher),
			gateway.WithRecorder(recorder),
			gateway.WithMetricsHandler(metricsHandler, metricsPath),
		)

		if err := srv.RegisterRoutes(); err != nil {
			cli.LogFatal(logger, "failed to register routes", err)
		}

		srv.Start()
		cli.RunServer(ctx, srv, func() {
			publisher.Close()
			_ = shutdownMeter(context.Background())
			_ = shutdownTracer(context.Background())
			nc.Close()
			_ = redisClient.Close()
		})
	},
}

func init() {
	serverCmd.AddCommand(serverStartCmd)
}
