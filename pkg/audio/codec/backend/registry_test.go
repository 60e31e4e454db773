package backend

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeCapability struct{ name string }

func (c *fakeCapability) NewInstance(sampleRate, channels, application int) (Instance, error) {
	return nil, errors.New("not used")
}

func ok(name string) Descriptor {
	return Descriptor{
		Name: name,
		Load: func() (Capability, error) { return &fakeCapability{name: name}, nil },
	}
}

func failing(name, reason string) Descriptor {
	return Descriptor{
		Name: name,
		Load: func() (Capability, error) { return nil, errors.New(reason) },
	}
}

func TestRegistryFallback(t *testing.T) {
	reg := NewRegistry(
		failing("first", "not installed"),
		failing("second", "missing symbol"),
		ok("third"),
		ok("fourth"),
	)

	active, err := reg.Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if active.Name() != "third" {
		t.Errorf("Name() = %q, want %q", active.Name(), "third")
	}
	if got := active.Capability.(*fakeCapability).name; got != "third" {
		t.Errorf("capability = %q, want %q", got, "third")
	}

	var got []string
	for _, a := range reg.Attempts() {
		got = append(got, a.String())
	}
	want := []string{
		"Failed to load first: not installed",
		"Failed to load second: missing symbol",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Attempts() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryUnavailable(t *testing.T) {
	reg := NewRegistry(
		failing("libopus", "not compiled in"),
		failing("hraban", "not compiled in"),
		failing("purego", "dlopen failed"),
		{Name: "gopus"},
	)

	_, err := reg.Load(false)
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("Load() error = %v, want ErrBackendUnavailable", err)
	}
	var ue *UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("Load() error type = %T, want *UnavailableError", err)
	}
	if len(ue.Attempts) != 4 {
		t.Errorf("len(Attempts) = %d, want 4", len(ue.Attempts))
	}
	for _, name := range []string{"libopus", "hraban", "purego", "gopus", "dlopen failed", "no loader"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %q", err.Error(), name)
		}
	}
	if reg.Active() != nil {
		t.Error("Active() should be nil after a failed scan")
	}
}

func TestRegistryCachesUntilRefresh(t *testing.T) {
	var calls atomic.Int32
	first := true
	reg := NewRegistry(
		Descriptor{
			Name: "flaky",
			Load: func() (Capability, error) {
				calls.Add(1)
				if first {
					first = false
					return &fakeCapability{name: "flaky"}, nil
				}
				return nil, errors.New("gone")
			},
		},
		ok("fallback"),
	)

	a1, err := reg.Load(false)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := reg.Load(false)
	if err != nil {
		t.Fatal(err)
	}
	if a1 != a2 {
		t.Error("Load(false) should return the cached selection")
	}
	if calls.Load() != 1 {
		t.Errorf("loader calls = %d, want 1", calls.Load())
	}

	a3, err := reg.Load(true)
	if err != nil {
		t.Fatal(err)
	}
	if a3.Name() != "fallback" {
		t.Errorf("after refresh Name() = %q, want %q", a3.Name(), "fallback")
	}
	if len(reg.Attempts()) != 1 {
		t.Errorf("len(Attempts()) = %d, want 1", len(reg.Attempts()))
	}
}

func TestRegistryConcurrentFirstLoad(t *testing.T) {
	var calls atomic.Int32
	reg := NewRegistry(Descriptor{
		Name: "only",
		Load: func() (Capability, error) {
			calls.Add(1)
			return &fakeCapability{name: "only"}, nil
		},
	})

	const n = 16
	results := make([]*Active, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := reg.Load(false)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = a
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("loader calls = %d, want 1", calls.Load())
	}
	for i, a := range results {
		if a != results[0] {
			t.Errorf("results[%d] differs from results[0]", i)
		}
	}
}

func TestRegistryRecoversLoaderPanic(t *testing.T) {
	reg := NewRegistry(
		Descriptor{Name: "boom", Load: func() (Capability, error) { panic("bad symbol") }},
		ok("safe"),
	)
	active, err := reg.Load(false)
	if err != nil {
		t.Fatal(err)
	}
	if active.Name() != "safe" {
		t.Errorf("Name() = %q, want %q", active.Name(), "safe")
	}
	attempts := reg.Attempts()
	if len(attempts) != 1 || !strings.Contains(attempts[0].Err.Error(), "bad symbol") {
		t.Errorf("Attempts() = %v", attempts)
	}
}

type applyInstance struct{ codes []int }

func (i *applyInstance) Encode(pcm []byte, frameSize int) ([]byte, error)    { return nil, nil }
func (i *applyInstance) Decode(packet []byte, frameSize int) ([]byte, error) { return nil, nil }
func (i *applyInstance) ApplyEncoderCTL(code, value int) error {
	i.codes = append(i.codes, code)
	return nil
}

func TestResolveControl(t *testing.T) {
	inst := &applyInstance{}

	if f := ResolveControl(inst, ControlApply); f == nil {
		t.Error("ResolveControl(ControlApply) = nil")
	} else if err := f(0xfa2, 64000); err != nil {
		t.Error(err)
	}
	if f := ResolveControl(inst, ControlEncoder); f != nil {
		t.Error("ResolveControl(ControlEncoder) should be nil for an ApplyEncoderCTL instance")
	}
	if f := ResolveControl(inst, ControlNone); f != nil {
		t.Error("ResolveControl(ControlNone) should be nil")
	}
	if diff := cmp.Diff([]int{0xfa2}, inst.codes); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestApplicationName(t *testing.T) {
	tests := []struct {
		app  int
		want string
		ok   bool
	}{
		{ApplicationVoIP, AppVoIP, true},
		{ApplicationAudio, AppAudio, true},
		{ApplicationRestrictedLowdelay, AppRestrictedLowdelay, true},
		{2050, "", false},
	}
	for _, tt := range tests {
		got, ok := ApplicationName(tt.app)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ApplicationName(%d) = %q, %v, want %q, %v", tt.app, got, ok, tt.want, tt.ok)
		}
	}
}
