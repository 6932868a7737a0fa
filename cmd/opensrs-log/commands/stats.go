package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/supernovus/opensrs-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Requests          map[string]*RequestStats
	Actions           map[string]int
	Failures          int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// RequestStats holds statistics for a single request.
type RequestStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Action    string
	Object    string

	// RoundTrip is the HTTP duration of the response exchange, if logged.
	RoundTrip time.Duration

	// Success is nil until a response message is seen.
	Success *bool
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Requests:          make(map[string]*RequestStats),
		Actions:           make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByCategory[event.Category]++
		stats.EventsByDirection[event.Direction]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		req, ok := stats.Requests[event.RequestID]
		if !ok {
			req = &RequestStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Requests[event.RequestID] = req
		}
		req.Events++
		if event.Timestamp.After(req.LastSeen) {
			req.LastSeen = event.Timestamp
		}

		if ex := event.Exchange; ex != nil && ex.Duration != nil {
			req.RoundTrip = *ex.Duration
		}

		if msg := event.Message; msg != nil {
			if msg.Type == log.MessageTypeRequest && msg.Action != "" {
				req.Action, req.Object = msg.Action, msg.Object
				stats.Actions[msg.Action]++
			}
			if msg.Type == log.MessageTypeResponse && msg.IsSuccess != nil {
				req.Success = msg.IsSuccess
				if !*msg.IsSuccess {
					stats.Failures++
				}
			}
		}

		if event.Error != nil {
			stats.Errors++
		}
	}

	return stats, nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== OpenSRS Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerEnvelope, log.LayerClient} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.Actions) > 0 {
		fmt.Fprintln(w, "Requests by Action:")
		actions := make([]string, 0, len(stats.Actions))
		for a := range stats.Actions {
			actions = append(actions, a)
		}
		sort.Strings(actions)
		for _, a := range actions {
			fmt.Fprintf(w, "  %-16s %d\n", a+":", stats.Actions[a])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Requests: %d\n", len(stats.Requests))
	if len(stats.Requests) > 0 {
		type reqInfo struct {
			id    string
			stats *RequestStats
		}
		reqs := make([]reqInfo, 0, len(stats.Requests))
		for id, rs := range stats.Requests {
			reqs = append(reqs, reqInfo{id, rs})
		}
		sort.Slice(reqs, func(i, j int) bool {
			return reqs[i].stats.FirstSeen.Before(reqs[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, r := range reqs {
			fmt.Fprintf(w, "  [%s] %d events", shortenRequestID(r.id), r.stats.Events)
			if r.stats.Action != "" {
				fmt.Fprintf(w, ", %s %s", r.stats.Action, r.stats.Object)
			}
			if r.stats.RoundTrip > 0 {
				fmt.Fprintf(w, ", round trip %s", formatDuration(r.stats.RoundTrip))
			}
			switch {
			case r.stats.Success == nil:
				fmt.Fprint(w, ", no response")
			case *r.stats.Success:
				fmt.Fprint(w, ", ok")
			default:
				fmt.Fprint(w, ", failed")
			}
			fmt.Fprintln(w)
		}
	}

	if stats.Failures > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "API Failures: %d\n", stats.Failures)
	}
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
