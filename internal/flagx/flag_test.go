package flagx

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	serverFlags := []string{"-a", "-g", "-s", "-t", "-T"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "keeps own flags and drops the config path",
			args:    []string{"-c", "server.json", "-a", ":9090", "-g", ":6000"},
			allowed: serverFlags,
			want:    []string{"-a", ":9090", "-g", ":6000"},
		},
		{
			name:    "equals form",
			args:    []string{"-t=12h", "-config=server.json", "-T=72h"},
			allowed: serverFlags,
			want:    []string{"-t=12h", "-T=72h"},
		},
		{
			name:    "flag without value at the end",
			args:    []string{"-s"},
			allowed: serverFlags,
			want:    []string{"-s"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-a", "-g", ":6000"},
			allowed: serverFlags,
			want:    []string{"-a", "-g", ":6000"},
		},
		{
			name:    "value starting with dash is kept in equals form",
			args:    []string{"-s=-weird-secret"},
			allowed: serverFlags,
			want:    []string{"-s=-weird-secret"},
		},
		{
			name:    "positional arguments are dropped",
			args:    []string{"serve", "-a", ":8081", "now"},
			allowed: serverFlags,
			want:    []string{"-a", ":8081"},
		},
		{
			name:    "repeated flags keep their order",
			args:    []string{"-a", ":1", "-a", ":2"},
			allowed: serverFlags,
			want:    []string{"-a", ":1", "-a", ":2"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", ":1"},
			allowed: nil,
			want:    []string{},
		},
		{
			name:    "empty args",
			args:    []string{},
			allowed: serverFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("FilterArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"short form", []string{"printshop-server", "-c", "/etc/printshop/server.json"}, "/etc/printshop/server.json"},
		{"long form", []string{"printshop-server", "-config=client.json", "-a", "http://localhost:8080"}, "client.json"},
		{"absent", []string{"printshop-server", "-a", ":8080"}, ""},
		{"last wins", []string{"printshop-server", "-c", "one.json", "-config", "two.json"}, "two.json"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			os.Args = tc.args
			assert.Equal(t, tc.want, JsonConfigFlags())
		})
	}
}
