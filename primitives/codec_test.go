package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinvm/spinvm/primitives/codec"
)

func TestContractCallRoundTrip(t *testing.T) {
	c := ContractCall{
		Account:     NewAccountId("token.spin"),
		Method:      "transfer",
		Args:        []byte{1, 2, 3, 4},
		AttachedGas: 100000,
		Sender:      NewAccountId("alice.spin"),
		Signer:      NewAccountId("alice.spin"),
	}
	got, err := DecodeContractCall(c.Bytes())
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestContractCallHashIsDeterministic(t *testing.T) {
	c := ContractCall{Account: NewAccountId("counter.spin"), Method: "increment"}
	assert.Equal(t, c.Hash(), c.Hash())

	other := c
	other.Method = "decrement"
	assert.NotEqual(t, c.Hash(), other.Hash())
}

func TestFunctionCallRoundTrip(t *testing.T) {
	f := FunctionCall{Method: "get", Args: nil}
	got, err := DecodeFunctionCall(f.Bytes())
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestExecutionOutcomeRoundTrip(t *testing.T) {
	o := NewExecutionOutcome(SHA256([]byte("call")))
	o.Output = []byte("42")
	o.StorageReads["count"] = SHA256([]byte("41"))
	o.StorageWrites["count"] = SHA256([]byte("42"))
	o.CrossCallsHashes = []CrossCallHash{
		{CallHash: SHA256([]byte("nested-call")), OutputHash: SHA256([]byte("nested-output"))},
	}

	got, err := DecodeExecutionOutcome(o.Bytes())
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestExecutionOutcomeEmptyMapsRoundTrip(t *testing.T) {
	o := NewExecutionOutcome(EmptyDigest)
	got, err := DecodeExecutionOutcome(o.Bytes())
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestStorageRequestResponseRoundTrip(t *testing.T) {
	getReq := GetStorageRequest{Key: "balance.alice"}
	gotGetReq, err := DecodeGetStorageRequest(getReq.Bytes())
	require.NoError(t, err)
	assert.Equal(t, getReq, gotGetReq)

	getResp := GetStorageResponse{Storage: []byte("100"), Present: true, Hash: SHA256([]byte("100"))}
	gotGetResp, err := DecodeGetStorageResponse(getResp.Bytes())
	require.NoError(t, err)
	assert.Equal(t, getResp, gotGetResp)

	absent := GetStorageResponse{Storage: nil, Present: false, Hash: EmptyDigest}
	gotAbsent, err := DecodeGetStorageResponse(absent.Bytes())
	require.NoError(t, err)
	assert.Equal(t, absent, gotAbsent)

	setReq := SetStorageRequest{Key: "balance.alice", Hash: SHA256([]byte("90")), Storage: []byte("90")}
	gotSetReq, err := DecodeSetStorageRequest(setReq.Bytes())
	require.NoError(t, err)
	assert.Equal(t, setReq, gotSetReq)
}

func TestCrossContractCallRoundTrip(t *testing.T) {
	req := CrossContractCallRequest{
		Account:     NewAccountId("token.spin"),
		Method:      "balance_of",
		Args:        []byte("alice.spin"),
		AttachedGas: 5000,
	}
	gotReq, err := DecodeCrossContractCallRequest(req.Bytes())
	require.NoError(t, err)
	assert.Equal(t, req, gotReq)
}

func TestMalformedBytesReturnErrShortBuffer(t *testing.T) {
	_, err := DecodeContractCall([]byte{1, 2, 3})
	assert.ErrorIs(t, err, codec.ErrShortBuffer)

	_, err = DecodeExecutionOutcome(nil)
	assert.ErrorIs(t, err, codec.ErrShortBuffer)
}
