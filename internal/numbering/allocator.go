// Package numbering allocates sequential invoice numbers of the form
// INV-YYYY-MM-NNNN, restarting the sequence every calendar month.
package numbering

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Source finds the greatest existing number that starts with prefix.
// It returns "" when the bucket is empty.
type Source interface {
	LatestNumberWithPrefix(ctx context.Context, prefix string) (string, error)
}

// Allocator derives the next number from the latest one in storage.
// It is not safe under concurrent use: two callers may compute the same
// number, and the storage uniqueness constraint decides the winner.
type Allocator struct {
	src Source
	now func() time.Time
}

func NewAllocator(src Source, now func() time.Time) *Allocator {
	if now == nil {
		now = time.Now
	}
	return &Allocator{src: src, now: now}
}

// Prefix returns the year-month bucket prefix for t, e.g. "INV-2026-10-".
func Prefix(t time.Time) string {
	return fmt.Sprintf("INV-%04d-%02d-", t.Year(), int(t.Month()))
}

// Pattern matches a well-formed allocated number.
var Pattern = regexp.MustCompile(`^INV-\d{4}-\d{2}-\d{4}$`)

// Sequence reads the leading digits of the 4th hyphen-delimited segment,
// so "0003x" counts as 3. A missing segment or one without leading digits
// counts as 0.
func Sequence(number string) int {
	parts := strings.Split(number, "-")
	if len(parts) < 4 {
		return 0
	}
	seg := parts[3]
	end := strings.IndexFunc(seg, func(r rune) bool { return r < '0' || r > '9' })
	if end >= 0 {
		seg = seg[:end]
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0
	}
	return n
}

// Reserved reports whether number uses the allocator's "INV-" namespace.
// Such numbers must match Pattern.
func Reserved(number string) bool {
	return strings.HasPrefix(number, "INV-")
}

// Format joins prefix and a zero-padded 4-digit sequence.
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// Next returns the next number for the current month.
func (a *Allocator) Next(ctx context.Context) (string, error) {
	prefix := Prefix(a.now())
	last, err := a.src.LatestNumberWithPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("latest invoice number: %w", err)
	}
	seq := 1
	if last != "" {
		seq = Sequence(last) + 1
	}
	return Format(prefix, seq), nil
}
