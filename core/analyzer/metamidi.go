package analyzer

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"mpfm/logger"
)

// ErrMalformedOutput indicates the analyzer produced output that does not
// match the expected listing format.
var ErrMalformedOutput = errors.New("malformed analyzer output")

// Report is the parsed result of one analyzer invocation.
type Report struct {
	BPM    int      // detected tempo, whole beats per minute
	Fields []string // all ';'-separated fields of the listing line
	Raw    string   // untouched analyzer output
}

// Analyzer extracts tempo information from a track file.
type Analyzer interface {
	Analyze(path string) (*Report, error)
}

// CommandRunner executes an external command and returns its stdout.
// Injected so tests can substitute canned output for a real subprocess.
type CommandRunner interface {
	Run(name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s execution failed: %w\nstderr: %s", name, err, stderr.String())
	}
	return out.String(), nil
}

// Metamidi implements Analyzer by shelling out to the metamidi binary.
type Metamidi struct {
	binPath string
	runner  CommandRunner
}

// NewMetamidi creates an analyzer that runs the metamidi binary at binPath.
func NewMetamidi(binPath string) *Metamidi {
	return &Metamidi{binPath: binPath, runner: execRunner{}}
}

// NewMetamidiWithRunner creates an analyzer with a custom command runner.
func NewMetamidiWithRunner(binPath string, runner CommandRunner) *Metamidi {
	return &Metamidi{binPath: binPath, runner: runner}
}

// Analyze runs `metamidi -l <path>` and parses the listing line.
func (m *Metamidi) Analyze(path string) (*Report, error) {
	out, err := m.runner.Run(m.binPath, "-l", path)
	if err != nil {
		return nil, fmt.Errorf("analyzer invocation for %s: %w", path, err)
	}

	report, err := ParseListing(out)
	if err != nil {
		logger.Warn("analyzer output rejected",
			logger.String("path", path),
			logger.String("output", out),
			logger.ErrorField(err))
		return nil, err
	}
	return report, nil
}

// tempoField is the position of the tempo column in metamidi's ';'-separated
// listing. The column holds one or more float tempos joined by ','.
const tempoField = 6

// ParseListing parses one metamidi listing line into a Report.
func ParseListing(out string) (*Report, error) {
	fields := strings.Split(out, ";")
	if len(fields) <= tempoField {
		return nil, fmt.Errorf("%w: want more than %d ';'-separated fields, got %d",
			ErrMalformedOutput, tempoField, len(fields))
	}

	// "120.00,90.00" -> first tempo, integer part only.
	head := strings.SplitN(fields[tempoField], ",", 2)[0]
	head = strings.SplitN(head, ".", 2)[0]
	bpm, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return nil, fmt.Errorf("%w: tempo field %q is not numeric", ErrMalformedOutput, fields[tempoField])
	}
	if bpm <= 0 {
		return nil, fmt.Errorf("%w: non-positive tempo %d", ErrMalformedOutput, bpm)
	}

	return &Report{BPM: bpm, Fields: fields, Raw: out}, nil
}
