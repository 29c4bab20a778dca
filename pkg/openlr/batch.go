package openlr

import (
	"fmt"
	"io"
	"runtime"
	"sync"
)

// BatchOptions controls parallel batch decoding behavior and error
// handling, mirroring the tuning knobs of a chart-loading worker pool
// (§5).
type BatchOptions struct {
	// Parallel enables concurrent decoding across multiple goroutines.
	Parallel bool

	// Workers specifies the number of parallel decoder goroutines. If
	// 0, defaults to runtime.NumCPU(). Only used when Parallel is true.
	Workers int

	// SkipErrors causes decoding to continue even when individual
	// references fail. Failed references are skipped and their errors
	// collected. When false, the first error stops the batch.
	SkipErrors bool

	// Progress is an optional callback invoked after each reference is
	// decoded (successfully or with error): (done, total).
	Progress func(done, total int)

	// ErrorLog is an optional writer for detailed per-reference error
	// reporting.
	ErrorLog io.Writer
}

// DefaultBatchOptions returns batch options with sensible defaults.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// DecodeBatch decodes multiple base64-encoded OpenLR references,
// concurrently when opts.Parallel is set, and returns the results in
// input order (§5). References that fail under SkipErrors are left out
// of the result slice, so a result's position matches its input index
// only when no reference failed; each collected error names the index
// of the reference that produced it.
//
// Example:
//
//	results, errs := openlr.DecodeBatch(decoder, refs, openlr.DefaultBatchOptions())
//	if len(errs) > 0 {
//	    fmt.Printf("skipped %d references\n", len(errs))
//	}
func DecodeBatch(d *Decoder, refs []string, opts BatchOptions) ([]MatchResult, []error) {
	if len(refs) == 0 {
		return []MatchResult{}, nil
	}

	if !opts.Parallel {
		return decodeBatchSerial(d, refs, opts)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(refs) {
		workers = len(refs)
	}

	type decodeResult struct {
		index  int
		result MatchResult
		err    error
	}

	jobs := make(chan int, len(refs))
	results := make(chan decodeResult, len(refs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				result, err := d.DecodeBase64(refs[index])
				results <- decodeResult{index: index, result: result, err: err}
			}
		}()
	}

	for i := range refs {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	resultMap := make(map[int]MatchResult)
	var errs []error
	done := 0

	for r := range results {
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(refs))
		}

		if r.err != nil {
			err := fmt.Errorf("reference %d: %w", r.index, r.err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "decode error: %v\n", err)
			}
			if opts.SkipErrors {
				errs = append(errs, err)
				continue
			}
			return nil, []error{err}
		}

		resultMap[r.index] = r.result
	}

	out := make([]MatchResult, 0, len(resultMap))
	for i := 0; i < len(refs); i++ {
		if result, ok := resultMap[i]; ok {
			out = append(out, result)
		}
	}

	return out, errs
}

func decodeBatchSerial(d *Decoder, refs []string, opts BatchOptions) ([]MatchResult, []error) {
	out := make([]MatchResult, 0, len(refs))
	var errs []error

	for i, ref := range refs {
		result, err := d.DecodeBase64(ref)
		if opts.Progress != nil {
			opts.Progress(i+1, len(refs))
		}
		if err != nil {
			err := fmt.Errorf("reference %d: %w", i, err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "decode error: %v\n", err)
			}
			if opts.SkipErrors {
				errs = append(errs, err)
				continue
			}
			return nil, []error{err}
		}

		out = append(out, result)
	}

	return out, errs
}
