// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ballot

import (
	"bytes"
	"testing"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
	"github.com/thepudds/fzgen/fuzzer"
)

func FuzzKeyMarshal(f *testing.F) {
	f.Fuzz(func(t *testing.T, data []byte) {
		require := require.New(t)

		var k Key
		fz := fuzzer.NewFuzzer(data)
		fz.Fill(&k)

		marshalledData := k.Marshal()
		require.Len(marshalledData, KeyLen)

		var parsed Key
		require.NoError(parsed.Unmarshal(marshalledData))
		require.Equal(k, parsed)
	})
}

func FuzzKeyUnmarshal(f *testing.F) {
	f.Fuzz(func(t *testing.T, data []byte) {
		require := require.New(t)

		var k Key
		if err := k.Unmarshal(data); err != nil {
			require.ErrorIs(err, errUnexpectedKeyLength)
			return
		}

		marshalledData := k.Marshal()
		require.Equal(data, marshalledData)
	})
}

func FuzzKeyOrdering(f *testing.F) {
	f.Fuzz(func(t *testing.T, data []byte) {
		var (
			k0 Key
			k1 Key
		)
		fz := fuzzer.NewFuzzer(data)
		fz.Fill(&k0, &k1)

		require.Equal(
			t,
			k0.Compare(k1),
			bytes.Compare(k0.Marshal(), k1.Marshal()),
		)
	})
}

func TestKeyMarshalLayout(t *testing.T) {
	require := require.New(t)

	k := Key{
		ElectionID: 0x0102030405060708,
		Voter:      ids.GenerateTestShortID(),
		ChainID:    ids.GenerateTestID(),
	}
	data := k.Marshal()
	require.Equal(database.PackUInt64(k.ElectionID), data[:database.Uint64Size])
	require.Equal(k.Voter[:], data[database.Uint64Size:database.Uint64Size+len(k.Voter)])
	require.Equal(k.ChainID[:], data[KeyLen-ids.IDLen:])

	electionID, err := database.ParseUInt64(data[:database.Uint64Size])
	require.NoError(err)
	require.Equal(k.ElectionID, electionID)
}
