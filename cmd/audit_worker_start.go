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
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"

	"github.com/retr0h/gateway/internal/audit"
	"github.com/retr0h/gateway/internal/cli"
	"github.com/retr0h/gateway/internal/config"
	"github.com/retr0h/gateway/internal/messaging"
	"github.com/retr0h/gateway/internal/telemetry"
)

// auditWorkerStartCmd represents the auditWorkerStart command.
var auditWorkerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the worker",
	Long: `Start the audit queue worker.
It drains the audit stream and durably records each event.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			"gateway-audit-worker",
			appConfig.Telemetry.Tracing,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize tracer", err)
		}

		nc, js, err := cli.ConnectNATS(
			appConfig.NATS.Connection,
			config.DurationOr(appConfig.NATS.Consumer.ReconnectWait, 5*time.Second),
		)
		if err != nil {
			cli.LogFatal(logger, "failed to connect to NATS", err)
		}

		// The audit bucket binds on first use; a failed bind surfaces as a
		// record failure, which the consumer naks for redelivery.
		recorder := audit.NewLazyKVStore(logger, func(ctx context.Context) (messaging.KV, error) {
			return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
				Bucket:   appConfig.NATS.AuditKV.Bucket,
				TTL:      config.DurationOr(appConfig.NATS.AuditKV.TTL, 0),
				MaxBytes: appConfig.NATS.AuditKV.MaxBytes,
				Storage:  cli.ParseJetstreamStorageType(appConfig.NATS.AuditKV.Storage),
			})
		})

		consumer := audit.NewConsumer(
			logger,
			js,
			recorder,
			audit.ConsumerOptions{
				StreamName:    appConfig.NATS.Stream.Name,
				Subject:       appConfig.NATS.Stream.Subject,
				Storage:       cli.ParseJetstreamStorageType(appConfig.NATS.Stream.Storage),
				MaxAge:        config.DurationOr(appConfig.NATS.Stream.MaxAge, 30*24*time.Hour),
				MaxMsgs:       appConfig.NATS.Stream.MaxMsgs,
				ConsumerName:  appConfig.NATS.Consumer.Name,
				AckWait:       config.DurationOr(appConfig.NATS.Consumer.AckWait, 30*time.Second),
				MaxDeliver:    appConfig.NATS.Consumer.MaxDeliver,
				ReconnectWait: config.DurationOr(appConfig.NATS.Consumer.ReconnectWait, 5*time.Second),
			},
		)

		// Blocks until the run context is cancelled by a signal.
		consumer.Run(ctx)

		_ = shutdownTracer(context.Background())
		nc.Close()
	},
}

func init() {
	auditWorkerCmd.AddCommand(auditWorkerStartCmd)
}
