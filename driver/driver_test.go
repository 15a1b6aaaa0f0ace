// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProtocolTrace(t *testing.T) {
	on := ProtocolTrace()
	defer SetProtocolTrace(on)

	SetProtocolTrace(true)
	require.True(t, ProtocolTrace())
	require.Equal(t, "true", flag.Lookup("adabas.protocol.trace").Value.String())

	require.NoError(t, flag.Set("adabas.protocol.trace", "false"))
	require.False(t, ProtocolTrace())
}
