// Package vectors checks the tokenizer against recorded command lines and
// the arguments the C runtime produced for them.
package vectors

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/modern-devops/stdargv/tools/commander"
)

var ErrVectorsNotFound = errors.New("vectors not found")

//go:embed builtin.json
var builtin []byte

type Vector struct {
	CommandLine string   `json:"cmdline"`
	Args        []string `json:"args"`
	Wildcard    bool     `json:"wildcard,omitempty"`
	Wide        bool     `json:"wide,omitempty"`
}

type Result struct {
	Vector
	Got []string `json:"got"`
}

func (r Result) Passed() bool {
	return slices.Equal(r.Args, r.Got)
}

type Report struct {
	Total    int      `json:"total"`
	Failures []Result `json:"failures"`
}

// Builtin returns the vectors shipped with the binary.
func Builtin() ([]Vector, error) {
	return decode(builtin)
}

// Load reads vectors from a file, or from an http(s) URL.
func Load(src string) ([]Vector, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return fetch(src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read vectors: %w", err)
	}
	return decode(data)
}

func fetch(url string) ([]Vector, error) {
	var vs []Vector
	rsp, err := resty.New().R().
		ForceContentType("application/json").
		SetResult(&vs).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to request vectors: %w", err)
	}
	if rsp.IsSuccess() {
		return vs, nil
	}
	code := rsp.StatusCode()
	if code == http.StatusNotFound {
		return nil, ErrVectorsNotFound
	}
	return nil, fmt.Errorf("failed to get vectors, status: %d, resp: %s", code, rsp.String())
}

func decode(data []byte) ([]Vector, error) {
	var vs []Vector
	if err := json.Unmarshal(data, &vs); err != nil {
		return nil, fmt.Errorf("failed to decode vectors: %w", err)
	}
	return vs, nil
}

// Check tokenizes the vector's command line and records what came out.
func Check(v Vector) Result {
	var got []string
	if v.Wide {
		got = commander.SplitUTF16(v.CommandLine, commander.Options[uint16]{Wildcard: v.Wildcard})
	} else {
		got = commander.Split(v.CommandLine, commander.Options[byte]{Wildcard: v.Wildcard})
	}
	return Result{Vector: v, Got: got}
}

// Verify checks every vector, drawing progress to w when it is not nil.
func Verify(vs []Vector, w io.Writer) Report {
	var bar *progressbar.ProgressBar
	if w != nil {
		bar = progressbar.NewOptions(len(vs),
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("verifying"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	report := Report{Total: len(vs)}
	for _, v := range vs {
		r := Check(v)
		if !r.Passed() {
			log.Debug().Str("cmdline", v.CommandLine).Strs("want", v.Args).Strs("got", r.Got).Msg("Mismatch")
			report.Failures = append(report.Failures, r)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return report
}
