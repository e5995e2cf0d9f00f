package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "Test1 OK",
			args: []string{"cmd", "-a", ":9090", "-d", "postgres://x/y", "-s", "k", "-t", "10", "-r", "60",
				"-u", "root", "-p", "pw", "-b", "bkt", "-g", "eu-west-1", "-e", "http://s3:9000/"},
			expected: &Config{
				EndpointAddr: ":9090", DatabaseDSN: "postgres://x/y", SecretKey: "k",
				AccessTokenValidityDuration: 10 * time.Minute, RefreshTokenValidityDuration: 60 * time.Minute,
				S3RootUser: "root", S3RootPassword: "pw", S3Bucket: "bkt", S3Region: "eu-west-1",
				S3BaseEndpoint: "http://s3:9000/",
			},
		},
		{name: "Test2 incorrect validity", args: []string{"cmd", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
