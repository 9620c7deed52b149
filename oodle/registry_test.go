package oodle

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

func fakeService(rev Revision) Service {
	return ServiceFunc{Rev: rev, Fn: func(src []byte, rawLen int) ([]byte, error) {
		return make([]byte, rawLen), nil
	}}
}

func TestPreferredRevisions(t *testing.T) {
	tests := []struct {
		level int
		want  []Revision
	}{
		{9, []Revision{Revision8, Revision6}},
		{6, []Revision{Revision6, Revision8}},
		{-1, []Revision{Revision6, Revision8}},
	}
	for _, tt := range tests {
		got := PreferredRevisions(tt.level)
		if len(got) != len(tt.want) || got[0] != tt.want[0] || got[1] != tt.want[1] {
			t.Errorf("PreferredRevisions(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestForLevelSelection(t *testing.T) {
	tests := []struct {
		name    string
		present map[Revision]bool
		level   int
		want    Revision
	}{
		{"level 9 both present", map[Revision]bool{Revision6: true, Revision8: true}, 9, Revision8},
		{"level 6 both present", map[Revision]bool{Revision6: true, Revision8: true}, 6, Revision6},
		{"level 9 only 6", map[Revision]bool{Revision6: true}, 9, Revision6},
		{"level 6 only 8", map[Revision]bool{Revision8: true}, 6, Revision8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(func(rev Revision) (Service, error) {
				if tt.present[rev] {
					return fakeService(rev), nil
				}
				return nil, errors.New("missing")
			}, nil)
			svc, err := r.ForLevel(tt.level)
			if err != nil {
				t.Fatal(err)
			}
			if svc.Revision() != tt.want {
				t.Errorf("got %s, want %s", svc.Revision(), tt.want)
			}
		})
	}
}

func TestUnavailableIsRetried(t *testing.T) {
	var present atomic.Bool
	var probes atomic.Int32
	r := NewRegistry(func(rev Revision) (Service, error) {
		probes.Add(1)
		if present.Load() && rev == Revision6 {
			return fakeService(rev), nil
		}
		return nil, errors.New("missing")
	}, nil)

	for i := 0; i < 3; i++ {
		if _, err := r.ForLevel(6); !errors.Is(err, ErrCodecUnavailable) {
			t.Fatalf("attempt %d: got %v, want ErrCodecUnavailable", i, err)
		}
	}
	if n := probes.Load(); n != 6 {
		t.Errorf("probes = %d, want 6", n)
	}

	present.Store(true)
	if _, err := r.ForLevel(6); err != nil {
		t.Fatalf("after library appeared: %v", err)
	}
	before := probes.Load()
	if _, err := r.ForLevel(6); err != nil {
		t.Fatal(err)
	}
	if probes.Load() != before {
		t.Error("a loaded revision was probed again")
	}
}

func TestConcurrentFirstUse(t *testing.T) {
	r := NewRegistry(func(rev Revision) (Service, error) {
		return fakeService(rev), nil
	}, nil)

	var wg sync.WaitGroup
	results := make([]Service, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc, err := r.Lookup(Revision8)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = svc
		}(i)
	}
	wg.Wait()

	want, _ := r.Lookup(Revision8)
	for i, svc := range results {
		if svc == nil || svc.Revision() != want.Revision() {
			t.Errorf("result %d = %v", i, svc)
		}
	}
}

func TestDiscoveryLocate(t *testing.T) {
	dir := t.TempDir()
	d := NewDiscovery([]string{dir}, map[Revision][]string{
		Revision6: {"lib6.so"},
		Revision8: {"lib8.so"},
	})

	if _, err := d.Locate(Revision6); err == nil {
		t.Fatal("Locate succeeded with no library present")
	}
	if err := os.WriteFile(filepath.Join(dir, "lib6.so"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := d.Locate(Revision6)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "lib6.so") {
		t.Errorf("Locate = %q", got)
	}

	// A file that is not a loadable library fails at Probe, not at Locate.
	if _, err := d.Probe(Revision6); err == nil {
		t.Error("Probe loaded a bogus library")
	}
}
