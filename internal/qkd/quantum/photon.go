package quantum

// PhotonState is the polarization encoding of a (bit, basis) pair.
type PhotonState int

const (
	H PhotonState = iota
	V
	D45
	D135
)

func (s PhotonState) String() string {
	switch s {
	case H:
		return "H"
	case V:
		return "V"
	case D45:
		return "D45"
	case D135:
		return "D135"
	default:
		return "?"
	}
}

// EncodeState derives the polarization state deterministically from a
// bit and its preparation basis (spec.md §3): f(0,Rect)=H, f(1,Rect)=V,
// f(0,Diag)=D45, f(1,Diag)=D135.
func EncodeState(bit Bit, basis Basis) PhotonState {
	if basis == Rectilinear {
		if bit == Zero {
			return H
		}
		return V
	}
	if bit == Zero {
		return D45
	}
	return D135
}

// Photon is the unit the pipeline transports from preparation through
// measurement. OriginalIndex ties a surviving photon back to its
// position in the n-long per-run arrays once lossy stages shrink the
// sequence (spec.md §4.5 step 3, §9 design notes).
type Photon struct {
	Bit           Bit
	PrepBasis     Basis
	State         PhotonState
	Transmitted   bool
	Intercepted   bool
	OriginalIndex int
}

// NewPhoton prepares a photon, deriving its polarization state from the
// bit and basis (the state==f(bit,basis) invariant of spec.md §8).
func NewPhoton(index int, bit Bit, basis Basis) Photon {
	return Photon{
		Bit:           bit,
		PrepBasis:     basis,
		State:         EncodeState(bit, basis),
		Transmitted:   true,
		OriginalIndex: index,
	}
}

// Resend re-encodes a photon with a new bit and basis while preserving
// its place in the original index space, and marks it intercepted.
// Used by the Eve strategies that forward a freshly prepared photon
// after measuring the original (spec.md §4.4.1).
func (p Photon) Resend(bit Bit, basis Basis) Photon {
	p.Bit = bit
	p.PrepBasis = basis
	p.State = EncodeState(bit, basis)
	p.Intercepted = true
	return p
}
