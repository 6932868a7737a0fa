package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/supernovus/opensrs-go/pkg/envelope"
	"github.com/supernovus/opensrs-go/pkg/wire"
)

// ResponseOutput is the printable form of an API response.
type ResponseOutput struct {
	Success    bool   `json:"is_success" yaml:"is_success"`
	Code       *int   `json:"response_code,omitempty" yaml:"response_code,omitempty"`
	Text       string `json:"response_text,omitempty" yaml:"response_text,omitempty"`
	Attributes any    `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

func buildResponseOutput(resp *envelope.Response) ResponseOutput {
	out := ResponseOutput{
		Success: resp.IsSuccess(),
		Text:    resp.ResponseText(),
	}
	if code, ok := resp.ResponseCode(); ok {
		out.Code = &code
	}
	if attrs, ok := resp.Attributes(); ok {
		out.Attributes = wire.ToNative(attrs)
	}
	return out
}

// printResponse writes resp in format and returns the exit code for it.
func printResponse(w io.Writer, resp *envelope.Response, format string) int {
	out := buildResponseOutput(resp)
	if err := writeOutput(w, out, format, func() { printResponseText(w, out) }); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCommandError
	}
	if !out.Success {
		return exitAPIFailure
	}
	return exitSuccess
}

func printResponseText(w io.Writer, out ResponseOutput) {
	status := "OK"
	if !out.Success {
		status = "FAILED"
	}
	fmt.Fprintf(w, "Status: %s\n", status)
	if out.Code != nil {
		fmt.Fprintf(w, "Code:   %d\n", *out.Code)
	}
	if out.Text != "" {
		fmt.Fprintf(w, "Text:   %s\n", out.Text)
	}
	if out.Attributes != nil {
		fmt.Fprintln(w, "Attributes:")
		data, err := yaml.Marshal(out.Attributes)
		if err != nil {
			return
		}
		for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// writeOutput encodes v as yaml or json, or calls text for the text format.
func writeOutput(w io.Writer, v any, format string, text func()) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text()
	}
	return nil
}
