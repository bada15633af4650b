package primitives

import (
	"github.com/spinvm/spinvm/primitives/codec"
)

// CrossCallHash records one nested invocation's call_hash and the
// SHA-256 of its output, in the order the call was made, so an outcome's
// cross_calls_hashes is reproducible from a replay of the same guest
// execution without needing the child's full ExecutionOutcome at hand.
type CrossCallHash struct {
	CallHash   Digest
	OutputHash Digest
}

// ExecutionOutcome is everything a verifier needs to check an invocation
// without re-running the guest: the call it answers, the output it
// produced, every storage key it observed or mutated (with the digest of
// the value, not the value itself), and the call_hash of every nested
// invocation it made, in call order.
type ExecutionOutcome struct {
	CallHash         Digest
	Output           []byte
	StorageReads     map[string]Digest
	StorageWrites    map[string]Digest
	CrossCallsHashes []CrossCallHash
}

// NewExecutionOutcome returns an outcome with initialized maps, ready to
// be filled in by Env.Commit when a guest invocation is sealed.
func NewExecutionOutcome(callHash Digest) ExecutionOutcome {
	return ExecutionOutcome{
		CallHash:      callHash,
		StorageReads:  make(map[string]Digest),
		StorageWrites: make(map[string]Digest),
	}
}

// Encode appends o's canonical byte encoding to e.
func (o ExecutionOutcome) Encode(e *codec.Encoder) {
	e.WriteFixed(o.CallHash.Bytes())
	e.WriteBytes(o.Output)

	readKeys := make([]string, 0, len(o.StorageReads))
	for k := range o.StorageReads {
		readKeys = append(readKeys, k)
	}
	e.WriteStringKeyedMap(readKeys, func(k string) {
		d := o.StorageReads[k]
		e.WriteFixed(d.Bytes())
	})

	writeKeys := make([]string, 0, len(o.StorageWrites))
	for k := range o.StorageWrites {
		writeKeys = append(writeKeys, k)
	}
	e.WriteStringKeyedMap(writeKeys, func(k string) {
		d := o.StorageWrites[k]
		e.WriteFixed(d.Bytes())
	})

	e.WriteUint64(uint64(len(o.CrossCallsHashes)))
	for _, c := range o.CrossCallsHashes {
		e.WriteFixed(c.CallHash.Bytes())
		e.WriteFixed(c.OutputHash.Bytes())
	}
}

// Bytes returns the canonical encoding of o.
func (o ExecutionOutcome) Bytes() []byte {
	e := codec.NewEncoder()
	o.Encode(e)
	return e.Bytes()
}

// Hash returns SHA256(canonical(o)), the digest of the whole outcome. A
// parent invocation does not record this value: its CrossCallsHashes
// entry for this call holds CallHash and SHA256(Output).
func (o ExecutionOutcome) Hash() Digest {
	return SHA256(o.Bytes())
}

// DecodeExecutionOutcome reads an ExecutionOutcome from its canonical
// encoding.
func DecodeExecutionOutcome(b []byte) (ExecutionOutcome, error) {
	d := codec.NewDecoder(b)

	callHashBytes, err := d.ReadFixed(32)
	if err != nil {
		return ExecutionOutcome{}, err
	}
	var callHash Digest
	copy(callHash[:], callHashBytes)

	output, err := d.ReadBytes()
	if err != nil {
		return ExecutionOutcome{}, err
	}

	reads, err := readDigestMap(d)
	if err != nil {
		return ExecutionOutcome{}, err
	}

	writes, err := readDigestMap(d)
	if err != nil {
		return ExecutionOutcome{}, err
	}

	n, err := d.ReadCount()
	if err != nil {
		return ExecutionOutcome{}, err
	}
	crossCalls := make([]CrossCallHash, 0, n)
	for i := 0; i < n; i++ {
		callHashBytes, err := d.ReadFixed(32)
		if err != nil {
			return ExecutionOutcome{}, err
		}
		var ch Digest
		copy(ch[:], callHashBytes)

		outputHashBytes, err := d.ReadFixed(32)
		if err != nil {
			return ExecutionOutcome{}, err
		}
		var oh Digest
		copy(oh[:], outputHashBytes)

		crossCalls = append(crossCalls, CrossCallHash{CallHash: ch, OutputHash: oh})
	}

	return ExecutionOutcome{
		CallHash:         callHash,
		Output:           output,
		StorageReads:     reads,
		StorageWrites:    writes,
		CrossCallsHashes: crossCalls,
	}, nil
}

func readDigestMap(d *codec.Decoder) (map[string]Digest, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	m := make(map[string]Digest, n)
	for i := 0; i < n; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		vb, err := d.ReadFixed(32)
		if err != nil {
			return nil, err
		}
		var v Digest
		copy(v[:], vb)
		m[k] = v
	}
	return m, nil
}
