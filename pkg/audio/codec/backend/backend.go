package backend

import "fmt"

// Control identifies the control method an Instance exposes.
type Control int

const (
	// ControlNone means the backend cannot apply encoder controls.
	ControlNone Control = iota
	// ControlApply means the Instance implements ApplyCTLer.
	ControlApply
	// ControlEncoder means the Instance implements EncoderCTLer.
	ControlEncoder
)

// String returns the method name for the control kind.
func (c Control) String() string {
	switch c {
	case ControlNone:
		return "none"
	case ControlApply:
		return "ApplyEncoderCTL"
	case ControlEncoder:
		return "EncoderCTL"
	}
	return fmt.Sprintf("Control(%d)", int(c))
}

// Traits are the per-backend quirks, fixed when the descriptor is declared.
type Traits struct {
	// FrameSize is set when Encode and Decode need the frame size passed
	// explicitly. Other backends infer it from the buffer length.
	FrameSize bool

	// NamedApplications is set when the application profile must be
	// resolved by name through the Capability's ApplicationTable.
	NamedApplications bool

	// Control selects the control method name.
	Control Control

	// Release is set when instances hold resources that must be freed
	// with Release.
	Release bool
}

// Descriptor names a candidate backend and knows how to load it.
type Descriptor struct {
	Name   string
	Traits Traits

	// Load makes the backend available and validates it. A backend that is
	// not compiled in, or whose shared library cannot be opened, returns an
	// error describing why.
	Load func() (Capability, error)
}

// Capability is a loaded backend. It is shared by every stream in the
// process.
type Capability interface {
	// NewInstance creates a codec instance owned by a single stream.
	NewInstance(sampleRate, channels, application int) (Instance, error)
}

// ApplicationTable is implemented by capabilities that take the application
// profile by name. Keys are VOIP, AUDIO and RESTRICTED_LOWDELAY.
type ApplicationTable interface {
	Applications() map[string]int
}

// Instance encodes and decodes for one stream. It is not safe for concurrent
// use.
//
// frameSize is samples per channel. Zero asks the backend to infer it from
// the buffer length.
type Instance interface {
	Encode(pcm []byte, frameSize int) ([]byte, error)
	Decode(packet []byte, frameSize int) ([]byte, error)
}

// ApplyCTLer applies a raw encoder control request.
type ApplyCTLer interface {
	ApplyEncoderCTL(code, value int) error
}

// EncoderCTLer applies a raw encoder control request.
type EncoderCTLer interface {
	EncoderCTL(code, value int) error
}

// Releaser frees native resources held by an Instance.
type Releaser interface {
	Release() error
}

// ControlFunc applies one encoder control request.
type ControlFunc func(code, value int) error

// ResolveControl returns the control method of inst declared by c, or nil if
// inst does not expose it.
func ResolveControl(inst Instance, c Control) ControlFunc {
	switch c {
	case ControlApply:
		if a, ok := inst.(ApplyCTLer); ok {
			return a.ApplyEncoderCTL
		}
	case ControlEncoder:
		if e, ok := inst.(EncoderCTLer); ok {
			return e.EncoderCTL
		}
	}
	return nil
}

// Application profile names used by ApplicationTable.
const (
	AppVoIP               = "VOIP"
	AppAudio              = "AUDIO"
	AppRestrictedLowdelay = "RESTRICTED_LOWDELAY"
)

// Numeric application profiles, libopus numbering.
const (
	ApplicationVoIP               = 2048
	ApplicationAudio              = 2049
	ApplicationRestrictedLowdelay = 2051
)

// ApplicationName maps a numeric profile to its table name.
func ApplicationName(application int) (string, bool) {
	switch application {
	case ApplicationVoIP:
		return AppVoIP, true
	case ApplicationAudio:
		return AppAudio, true
	case ApplicationRestrictedLowdelay:
		return AppRestrictedLowdelay, true
	}
	return "", false
}
