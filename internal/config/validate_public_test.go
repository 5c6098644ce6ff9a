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

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/gateway/internal/config"
)

type ValidatePublicTestSuite struct {
	suite.Suite
}

func (s *ValidatePublicTestSuite) validConfig() config.Config {
	return config.Config{
		Gateway: config.Gateway{
			Port: 3000,
			Security: config.Security{
				SigningKey: "secret",
			},
			Routes: []config.ServiceRoute{
				{
					Prefix: "/api/users",
					Target: "http://localhost:3002",
				},
			},
			BackendTimeout: "10s",
		},
		Redis: config.Redis{
			Addr: "localhost:6379",
		},
	}
}

func (s *ValidatePublicTestSuite) TestValidate() {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "valid config passes",
			mutate: func(_ *config.Config) {},
		},
		{
			name: "missing signing key",
			mutate: func(c *config.Config) {
				c.Gateway.Security.SigningKey = ""
			},
			wantErr: "invalid configuration",
		},
		{
			name: "missing routes",
			mutate: func(c *config.Config) {
				c.Gateway.Routes = nil
			},
			wantErr: "invalid configuration",
		},
		{
			name: "route prefix without leading slash",
			mutate: func(c *config.Config) {
				c.Gateway.Routes[0].Prefix = "api/users"
			},
			wantErr: "invalid configuration",
		},
		{
			name: "route target is not a url",
			mutate: func(c *config.Config) {
				c.Gateway.Routes[0].Target = "not a url"
			},
			wantErr: "invalid configuration",
		},
		{
			name: "missing redis addr",
			mutate: func(c *config.Config) {
				c.Redis.Addr = ""
			},
			wantErr: "invalid configuration",
		},
		{
			name: "unparseable backend timeout",
			mutate: func(c *config.Config) {
				c.Gateway.BackendTimeout = "ten seconds"
			},
			wantErr: "invalid duration for gateway.backend_timeout",
		},
		{
			name: "unparseable window duration",
			mutate: func(c *config.Config) {
				c.RateLimit.Window.Duration = "1 minute"
			},
			wantErr: "invalid duration for rate_limit.window.duration",
		},
		{
			name: "empty durations fall back to defaults",
			mutate: func(c *config.Config) {
				c.Gateway.BackendTimeout = ""
				c.Cache.TTL = ""
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			cfg := s.validConfig()
			tt.mutate(&cfg)

			err := config.Validate(&cfg)
			if tt.wantErr != "" {
				s.Require().Error(err)
				s.Contains(err.Error(), tt.wantErr)
			} else {
				s.NoError(err)
			}
		})
	}
}

func (s *ValidatePublicTestSuite) TestDurationOr() {
	s.Equal(10*time.Second, config.DurationOr("10s", time.Minute))
	s.Equal(time.Minute, config.DurationOr("", time.Minute))
	s.Equal(time.Minute, config.DurationOr("bogus", time.Minute))
}

func TestValidatePublicTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatePublicTestSuite))
}
