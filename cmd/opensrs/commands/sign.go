package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/supernovus/opensrs-go/pkg/config"
	"github.com/supernovus/opensrs-go/pkg/signature"
)

const signUsage = `opensrs sign - Compute or check the X-Signature of a request body

Usage:
  opensrs sign [flags] [file]

The body is read from file, or from stdin when file is omitted or "-".
The key comes from -key, else from the config file and OPENSRS_API_KEY.
`

var errNoKey = errors.New("no API key: use -key, -config or OPENSRS_API_KEY")

// RunSign runs the sign command.
func RunSign(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("sign", signUsage, stderr)
	key := fs.String("key", "", "API key")
	configFile := fs.String("config", "", "Configuration file path (YAML)")
	verify := fs.String("verify", "", "Check this signature instead of printing one")
	if code, done := parseFlags(fs, args, 0, stderr); done {
		return code
	}

	secret, err := resolveKey(*key, *configFile)
	if err != nil {
		return fail(stderr, err)
	}

	body, err := readBody(fs.Arg(0), stdin)
	if err != nil {
		return fail(stderr, err)
	}

	if *verify != "" {
		if !signature.Verify(secret, body, *verify) {
			fmt.Fprintln(stdout, "invalid")
			return exitAPIFailure
		}
		fmt.Fprintln(stdout, "valid")
		return exitSuccess
	}

	fmt.Fprintln(stdout, signature.Sign(secret, body))
	return exitSuccess
}

func resolveKey(key, configFile string) (string, error) {
	if key != "" {
		return key, nil
	}
	cfg := config.Default()
	if configFile != "" {
		if err := cfg.ReadFile(configFile); err != nil {
			return "", err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return "", err
	}
	if cfg.APIKey == "" {
		return "", errNoKey
	}
	return cfg.APIKey, nil
}

func readBody(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(data), nil
}
