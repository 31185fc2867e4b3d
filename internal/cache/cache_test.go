package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clawd-ops/missioncontrol/internal/clock"
)

func TestFetchWithinAndAfterTTL(t *testing.T) {
	clk := clock.Fake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	c := New(5*time.Second, clk)

	reads := 0
	load := func() *int {
		reads++
		v := reads
		return &v
	}

	first := Fetch(c, "status.json", load)
	clk.Advance(4 * time.Second)
	second := Fetch(c, "status.json", load)

	if reads != 1 {
		t.Fatalf("reads after two calls within TTL = %d, want 1", reads)
	}
	if first != second {
		t.Errorf("Fetch() within TTL returned a different value: %p vs %p", first, second)
	}

	clk.Advance(time.Second)
	third := Fetch(c, "status.json", load)
	if reads != 2 {
		t.Errorf("reads after TTL elapsed = %d, want 2", reads)
	}
	if third == first || *third != 2 {
		t.Errorf("Fetch() after TTL = %d, want fresh value 2", *third)
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 2 || s.Loads != 2 || s.Entries != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 2 misses, 2 loads, 1 entry", s)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	c := New(time.Minute, clock.Fake(time.Unix(0, 0)))

	calls := map[string]int{}
	load := func(k string) func() string {
		return func() string {
			calls[k]++
			return k
		}
	}

	a := Key("subagent-log.jsonl", 50)
	b := Key("subagent-log.jsonl", 10)
	if a == b {
		t.Fatalf("Key() collided: %q", a)
	}
	Fetch(c, a, load(a))
	Fetch(c, b, load(b))
	Fetch(c, a, load(a))

	if calls[a] != 1 || calls[b] != 1 {
		t.Errorf("calls = %v, want one load per key", calls)
	}
}

func TestInvalidate(t *testing.T) {
	c := New(time.Minute, clock.Fake(time.Unix(0, 0)))

	reads := 0
	load := func() int { reads++; return reads }

	Fetch(c, "sessions.json", load)
	Fetch(c, "activity-feed.jsonl|100", load)
	c.Invalidate()

	if got := c.Stats().Entries; got != 0 {
		t.Errorf("Entries after Invalidate() = %d, want 0", got)
	}
	if got := Fetch(c, "sessions.json", load); got != 3 {
		t.Errorf("Fetch() after Invalidate() = %d, want reload (3)", got)
	}
}

func TestConcurrentMissSharesLoad(t *testing.T) {
	c := New(time.Minute, clock.Fake(time.Unix(0, 0)))

	var loads int32
	release := make(chan struct{})
	load := func() int {
		atomic.AddInt32(&loads, 1)
		<-release
		return 42
	}

	const callers = 8
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i] = Fetch(c, "cron-jobs.json", load)
		}(i)
	}
	started.Wait()
	// Give the goroutines a moment to reach the flight group.
	time.Sleep(20 * time.Millisecond)
	close(release)
	done.Wait()

	if n := atomic.LoadInt32(&loads); n < 1 || n > callers {
		t.Fatalf("loads = %d, want between 1 and %d", n, callers)
	}
	for i, r := range results {
		if r != 42 {
			t.Errorf("results[%d] = %d, want 42", i, r)
		}
	}
	if got := Fetch(c, "cron-jobs.json", load); got != 42 {
		t.Errorf("Fetch() after concurrent load = %d, want cached 42", got)
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(0, nil)
	if c.TTL() != DefaultTTL {
		t.Errorf("TTL() = %v, want %v", c.TTL(), DefaultTTL)
	}
	if got := Key("status.json"); got != "status.json" {
		t.Errorf("Key(status.json) = %q, want %q", got, "status.json")
	}
}
