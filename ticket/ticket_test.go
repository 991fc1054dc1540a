package ticket

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testPool = "hyc-10near.registry.hideyourcash.testnet"

func TestRoundTrip(t *testing.T) {
	note, text, err := New(testPool)
	require.NoError(t, err)
	require.NotNil(t, note)
	require.True(t, strings.HasPrefix(text, "hyc-"))

	decoded, err := Decode(text)
	require.NoError(t, err)
	require.Equal(t, note.PoolContract, decoded.PoolContract)
	require.Equal(t, note.Secret, decoded.Secret)
	require.Equal(t, note.Nullifier, decoded.Nullifier)
	require.Equal(t, note.NullifierHash, decoded.NullifierHash)
	require.Equal(t, note.Commitment, decoded.Commitment)

	require.Equal(t, text, Encode(decoded))
}

func TestDecodeDeterministic(t *testing.T) {
	_, text, err := New(testPool)
	require.NoError(t, err)

	first, err := Decode(text)
	require.NoError(t, err)
	second, err := Decode(text)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDerivedFields(t *testing.T) {
	note, _, err := New(testPool)
	require.NoError(t, err)

	require.Len(t, note.Secret, 32)
	require.Len(t, note.Nullifier, 32)
	require.Len(t, note.NullifierHash, 32)
	require.Len(t, note.Commitment, 32)
	require.NotEqual(t, note.Nullifier, note.NullifierHash)
	require.NotEqual(t, note.Nullifier, note.Commitment)
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	valid, _, err := New(testPool)
	require.NoError(t, err)
	validText := Encode(valid)

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{
			name:    "empty input",
			text:    "",
			wantErr: ErrEmptyTicket,
		},
		{
			name:    "partial input below threshold",
			text:    "hyc-pool",
			wantErr: ErrEmptyTicket,
		},
		{
			name:    "whitespace only",
			text:    "    \t   ",
			wantErr: ErrEmptyTicket,
		},
		{
			name:    "wrong prefix",
			text:    "abc" + validText[3:],
			wantErr: ErrMalformedTicket,
		},
		{
			name:    "missing contract field",
			text:    "hyc-" + validText[strings.LastIndex(validText, "-")+1:],
			wantErr: ErrMalformedTicket,
		},
		{
			name:    "payload too short",
			text:    validText[:len(validText)-2],
			wantErr: ErrMalformedTicket,
		},
		{
			name:    "payload not hex",
			text:    validText[:len(validText)-2] + "zz",
			wantErr: ErrMalformedTicket,
		},
		{
			name:    "checksum mismatch",
			text:    validText[:len(validText)-8] + "00000000",
			wantErr: ErrMalformedTicket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := Decode(tt.text)
			require.Nil(t, note)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeChecksumFlipsOnSecretChange(t *testing.T) {
	_, text, err := New(testPool)
	require.NoError(t, err)

	// flip one secret nibble, keep the checksum
	idx := strings.LastIndex(text, "-") + 1
	flipped := "0"
	if text[idx] == '0' {
		flipped = "1"
	}
	tampered := text[:idx] + flipped + text[idx+1:]

	_, err = Decode(tampered)
	require.ErrorIs(t, err, ErrMalformedTicket)
}

func TestDecodeContractWithDashes(t *testing.T) {
	note, text, err := New("hyc-usdt-v2.hideyourcash.near")
	require.NoError(t, err)

	decoded, err := Decode(text)
	require.NoError(t, err)
	require.Equal(t, note.PoolContract, decoded.PoolContract)
}

type fakeRegistry struct {
	allowed map[string]bool
	err     error
}

func (r *fakeRegistry) IsContractAllowed(
	_ context.Context, contract string,
) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.allowed[contract], nil
}

func TestParseChecksRegistry(t *testing.T) {
	_, text, err := New(testPool)
	require.NoError(t, err)

	t.Run("allowed pool", func(t *testing.T) {
		codec := NewCodec(&fakeRegistry{allowed: map[string]bool{testPool: true}})
		note, err := codec.Parse(context.Background(), text)
		require.NoError(t, err)
		require.Equal(t, testPool, note.PoolContract)
	})

	t.Run("unknown pool", func(t *testing.T) {
		codec := NewCodec(&fakeRegistry{allowed: map[string]bool{}})
		note, err := codec.Parse(context.Background(), text)
		require.Nil(t, note)
		require.ErrorIs(t, err, ErrUnknownPool)
	})

	t.Run("registry unreachable", func(t *testing.T) {
		codec := NewCodec(&fakeRegistry{err: fmt.Errorf("boom")})
		_, err := codec.Parse(context.Background(), text)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrUnknownPool)
	})
}
