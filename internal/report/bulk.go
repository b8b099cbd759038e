package report

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/firstcentralng/bulkrep/pkg/dataflow"
)

// SkippedSubscriber records one subscriber the bulk run could not process.
type SkippedSubscriber struct {
	Name   string
	Reason string
}

// BulkResult is the outcome of a best-effort bulk run.
type BulkResult struct {
	ZipBytes  []byte
	Filename  string
	Total     int
	Succeeded int
	Skipped   []SkippedSubscriber
}

// Summary is the human-readable result line, e.g. "2 of 3 subscribers
// succeeded".
func (r *BulkResult) Summary() string {
	return fmt.Sprintf("%d of %d subscribers succeeded", r.Succeeded, r.Total)
}

// GenerateBulk runs the assembler once per subscriber, one at a time,
// zipping the successes. Each generation holds a full template copy in
// memory, so the batch stays sequential. A failing subscriber is skipped
// with its reason recorded; it never aborts the rest of the batch. When
// nothing succeeds the whole run is a DataWarning and no archive is
// produced.
func (a *Assembler) GenerateBulk(ctx context.Context, subscribers []string, periodStart, periodEnd time.Time, includeBills, includeProducts bool, username string) (*BulkResult, error) {
	if len(subscribers) == 0 {
		return nil, &ValidationError{Msg: "no subscribers selected"}
	}

	outcomes := dataflow.Map(ctx, subscribers, func(ctx context.Context, name string) (*Result, error) {
		return a.Generate(ctx, Request{
			SubscriberName:  name,
			PeriodStart:     periodStart,
			PeriodEnd:       periodEnd,
			IncludeBills:    includeBills,
			IncludeProducts: includeProducts,
			Username:        username,
		})
	})

	result := &BulkResult{Total: len(subscribers)}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, outcome := range outcomes {
		name := subscribers[i]
		if outcome.Err != nil {
			result.Skipped = append(result.Skipped, SkippedSubscriber{Name: name, Reason: outcome.Err.Error()})
			continue
		}

		member, err := zw.Create(BulkMemberFilename(name, periodStart))
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedSubscriber{Name: name, Reason: fmt.Sprintf("zip entry: %v", err)})
			continue
		}
		if _, err := member.Write(outcome.Value.Bytes); err != nil {
			zw.Close()
			return nil, fmt.Errorf("write zip entry for %q: %w", name, err)
		}
		result.Succeeded++
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	if result.Succeeded == 0 {
		return nil, &DataWarning{Msg: fmt.Sprintf("no reports generated: all %d subscribers failed or had no data", result.Total)}
	}

	result.ZipBytes = buf.Bytes()
	result.Filename = BulkZipFilename(periodStart)
	return result, nil
}
