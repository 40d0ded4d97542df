package store

import (
	"context"
	"fmt"
	"strings"
)

// DecodePolicy says what a scan does with a value that does not decode.
type DecodePolicy int

const (
	// SkipWithLog drops the entry and logs a warning.
	SkipWithLog DecodePolicy = iota
	// SkipSilently drops the entry without a trace.
	SkipSilently
	// FailFast aborts the scan with the decode error.
	FailFast
)

func (p DecodePolicy) String() string {
	switch p {
	case SkipWithLog:
		return "log"
	case SkipSilently:
		return "skip"
	case FailFast:
		return "fail"
	default:
		return "unknown"
	}
}

// ParseDecodePolicy accepts the names returned by DecodePolicy.String.
func ParseDecodePolicy(s string) (DecodePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "log", "":
		return SkipWithLog, nil
	case "skip":
		return SkipSilently, nil
	case "fail":
		return FailFast, nil
	default:
		return SkipWithLog, fmt.Errorf("unknown decode policy %q", s)
	}
}

// ScanOptions narrow a scan.
type ScanOptions struct {
	// Prefix restricts the scan to keys starting with it.
	Prefix string
}

// ScanFilter decodes every entry under opts.Prefix as T and returns the ones
// keep accepts. A nil keep accepts everything. No order is guaranteed.
func ScanFilter[T any](ctx context.Context, s *Store, opts ScanOptions, keep func(key string, record *T) bool) ([]T, error) {
	var (
		matches []T
		skipped int
	)

	err := s.Iterate(ctx, opts.Prefix, func(key string, value []byte) error {
		var record T
		if err := decode(value, &record); err != nil {
			switch s.policy {
			case FailFast:
				return fmt.Errorf("failed to decode %s: %w", key, err)
			case SkipWithLog:
				s.logger.Warning("Store", "skipping undecodable entry", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
			skipped++
			return nil
		}
		if keep == nil || keep(key, &record) {
			matches = append(matches, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if skipped > 0 {
		s.logger.Debug("Store", "scan completed with skipped entries", map[string]interface{}{
			"prefix":  opts.Prefix,
			"matched": len(matches),
			"skipped": skipped,
		})
	}
	return matches, nil
}
