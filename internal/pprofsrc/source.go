// Package pprofsrc feeds pprof profiles into the ingest queue, either once
// from a file or by polling an HTTP endpoint such as /debug/pprof/profile.
package pprofsrc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/pprof/profile"
	"github.com/sirupsen/logrus"

	"github.com/Oloruntobi1/flametop/internal/flamegraph"
	"github.com/Oloruntobi1/flametop/internal/ingest"
)

// Thread labels looked up on every sample, in order.
var threadLabels = []string{"thread.name", "thread"}

// Source produces one ingest event per fetched profile.
type Source struct {
	Target     string
	Interval   time.Duration
	SampleType string

	Client *http.Client
	Log    logrus.FieldLogger
}

// IsURL reports whether target should be polled rather than read once.
func IsURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// Run pushes profiles to queue until ctx is done. A file target is read
// once; a URL is fetched immediately and then every Interval. Failures are
// logged and retried on the next tick.
func (s *Source) Run(ctx context.Context, queue *ingest.Queue) error {
	log := s.logger()
	if !IsURL(s.Target) {
		f, err := os.Open(s.Target)
		if err != nil {
			return fmt.Errorf("open profile: %w", err)
		}
		defer f.Close()
		p, err := ParseProfile(f)
		if err != nil {
			return err
		}
		s.push(queue, p)
		return nil
	}

	if s.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", s.Interval)
	}
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		p, err := s.fetch(ctx)
		if err != nil {
			log.WithError(err).Warn("fetch profile")
		} else {
			s.push(queue, p)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Source) logger() logrus.FieldLogger {
	log := s.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return log.WithFields(logrus.Fields{"component": "pprof", "source": s.Target})
}

func (s *Source) fetch(ctx context.Context) (*profile.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Target, nil)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("bad status: %s: %s", resp.Status, string(body))
	}
	return ParseProfile(resp.Body)
}

func (s *Source) push(queue *ingest.Queue, p *profile.Profile) {
	idx := SampleIndex(p, s.SampleType)
	fragment, samples := BuildFragment(p, idx)
	s.logger().WithFields(logrus.Fields{
		"samples":     samples,
		"sample_type": p.SampleType[idx].Type,
	}).Debug("profile loaded")
	queue.Push(ingest.Event{Fragment: fragment, Samples: samples, Source: ingest.SourcePprof})
}

// ParseProfile parses a gzipped or plain pprof profile.
func ParseProfile(r io.Reader) (*profile.Profile, error) {
	p, err := profile.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse pprof data: %w", err)
	}
	if len(p.SampleType) == 0 {
		return nil, fmt.Errorf("no sample types in profile")
	}
	return p, nil
}

// SampleIndex picks the sample type called name, else the profile's
// default sample type, else the last one.
func SampleIndex(p *profile.Profile, name string) int {
	for _, want := range []string{name, p.DefaultSampleType} {
		if want == "" {
			continue
		}
		for i, st := range p.SampleType {
			if st.Type == want {
				return i
			}
		}
	}
	return len(p.SampleType) - 1
}

// BuildFragment aggregates the samples of p at sampleIndex into a sorted
// tree. Samples with a non-positive value are skipped.
func BuildFragment(p *profile.Profile, sampleIndex int) (*flamegraph.Tree, uint64) {
	tree := flamegraph.NewTree()
	fallback := mainThread(p)
	var samples uint64

	for _, s := range p.Sample {
		if sampleIndex >= len(s.Value) {
			continue
		}
		val := s.Value[sampleIndex]
		if val <= 0 {
			continue
		}

		// Locations are ordered from callee to caller.
		var frames flamegraph.Stack
		for _, loc := range s.Location {
			frames = append(frames, locationFrames(loc)...)
		}
		if len(frames) == 0 {
			continue
		}
		frames.Reverse()

		stack := append(flamegraph.Stack{threadName(s, fallback)}, frames...)
		tree.Insert(stack, val)
		samples++
	}
	tree.SortRecursive()
	return tree, samples
}

// locationFrames names a location innermost first, marking every inlined
// line after the first.
func locationFrames(loc *profile.Location) []string {
	if len(loc.Line) == 0 {
		file := ""
		if loc.Mapping != nil {
			file = loc.Mapping.File
		}
		return []string{flamegraph.UnsymbolizedFrame(file, loc.Address)}
	}
	frames := make([]string, 0, len(loc.Line))
	for i, line := range loc.Line {
		name := flamegraph.UnknownFrame
		if line.Function != nil && line.Function.Name != "" {
			name = line.Function.Name
		}
		if i > 0 {
			name += flamegraph.InlineSuffix
		}
		frames = append(frames, name)
	}
	return frames
}

func threadName(s *profile.Sample, fallback string) string {
	for _, key := range threadLabels {
		if values := s.Label[key]; len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return fallback
}

// mainThread names samples without thread labels after the main binary.
func mainThread(p *profile.Profile) string {
	if len(p.Mapping) == 0 || p.Mapping[0].File == "" {
		return flamegraph.UnknownFrame
	}
	return path.Base(p.Mapping[0].File)
}
